package reference

import (
	"encoding/csv"
	"io"
	"os"
	"strings"

	"github.com/alexholyk/sentiment-monitor/internal/domain/entities"
	apperrors "github.com/alexholyk/sentiment-monitor/pkg/errors"
)

// LoadSample reads the training corpus CSV and builds the immutable
// reference sample. Expected columns are review_text and sentiment_label;
// the IMDB export's review/sentiment header is accepted as an alias. An
// unreadable file is a fatal initialization error, unlike the tolerant
// event log scan: without a baseline there is nothing to compare drift
// against.
func LoadSample(path string) (*entities.ReferenceSample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to open reference dataset", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to read reference dataset header", err)
	}

	textCol, labelCol, err := resolveColumns(header)
	if err != nil {
		return nil, err
	}

	rows := make([]entities.ReferenceRow, 0, 1024)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, apperrors.NewInternalError("failed to read reference dataset row", err)
		}
		if len(record) <= textCol || len(record) <= labelCol {
			continue
		}

		label := entities.Sentiment(strings.ToLower(strings.TrimSpace(record[labelCol])))
		if !label.IsValid() {
			continue
		}

		rows = append(rows, entities.ReferenceRow{
			ReviewText:     record[textCol],
			SentimentLabel: label,
		})
	}

	if len(rows) == 0 {
		return nil, apperrors.NewValidationError("reference dataset contains no usable rows")
	}

	return entities.NewReferenceSample(rows), nil
}

func resolveColumns(header []string) (int, int, error) {
	textCol, labelCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "review_text", "review":
			textCol = i
		case "sentiment_label", "sentiment":
			labelCol = i
		}
	}
	if textCol < 0 || labelCol < 0 {
		return 0, 0, apperrors.NewValidationError("reference dataset is missing review_text/sentiment_label columns")
	}
	return textCol, labelCol, nil
}
