package data

import "fmt"

// Restore batch sizes. Uploads and theme assets carry binary payloads, so
// they move in much smaller batches to bound memory and per-request size.
const (
	RestoreBatchSize       = 100
	RestoreBinaryBatchSize = 5
)

// InBatches runs fn over items in windows of at most size. A failing window
// stops the restore and reports which batch failed, so the operator can
// resume or inspect it rather than guessing.
func InBatches[T any](items []T, size int, fn func(batch []T) error) error {
	if size < 1 {
		size = 1
	}
	total := (len(items) + size - 1) / size
	for i := 0; i < len(items); i += size {
		end := min(i+size, len(items))
		if err := fn(items[i:end]); err != nil {
			return fmt.Errorf("restore batch %d of %d (items %d-%d): %w",
				i/size+1, total, i+1, end, err)
		}
	}
	return nil
}
