package submission

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/bigquery"
)

// BigQueryInserter implements RowInserter against a BigQuery table using
// the streaming insert API.
type BigQueryInserter struct {
	inserter *bigquery.Inserter
	dataset  string
	table    string
}

// NewBigQueryInserter targets dataset.table on the given client.
func NewBigQueryInserter(client *bigquery.Client, dataset, table string) *BigQueryInserter {
	return &BigQueryInserter{
		inserter: client.Dataset(dataset).Table(table).Inserter(),
		dataset:  dataset,
		table:    table,
	}
}

var _ RowInserter = (*BigQueryInserter)(nil)

// Insert streams rows into the table. Row-level failures reported by
// BigQuery are translated into RowError descriptors; anything else is
// returned as an error.
func (b *BigQueryInserter) Insert(ctx context.Context, rows []map[string]any) ([]RowError, error) {
	savers := make([]map[string]bigquery.Value, len(rows))
	for i, row := range rows {
		values := make(map[string]bigquery.Value, len(row))
		for k, v := range row {
			values[k] = v
		}
		savers[i] = values
	}

	err := b.inserter.Put(ctx, savers)
	if err == nil {
		return nil, nil
	}

	var multi bigquery.PutMultiError
	if errors.As(err, &multi) {
		rowErrs := make([]RowError, 0, len(multi))
		for _, rowErr := range multi {
			rowErrs = append(rowErrs, RowError{
				Index:  rowErr.RowIndex,
				Reason: rowErr.Error(),
			})
		}
		return rowErrs, nil
	}
	return nil, fmt.Errorf("submission: bigquery insert into %s.%s failed: %w", b.dataset, b.table, err)
}
