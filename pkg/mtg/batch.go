package mtg

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// DefaultBatchConcurrency bounds the number of in-flight batch requests.
const DefaultBatchConcurrency = 5

// DefaultBatchTimeout caps a single batch operation.
const DefaultBatchTimeout = 30 * time.Second

// ErrUnknownBatchOperation is returned for operations with an unknown kind.
var ErrUnknownBatchOperation = errors.New("unknown batch operation")

// BatchOperationKind selects the endpoint a BatchOperation calls.
type BatchOperationKind string

const (
	BatchGetSet     BatchOperationKind = "set"
	BatchGetBooster BatchOperationKind = "booster"
	BatchGetCard    BatchOperationKind = "card"
	BatchGetCatalog BatchOperationKind = "catalog"
)

// BatchOperation is a single read in a batch. Key is the set code, card id
// or catalog name depending on Kind.
type BatchOperation struct {
	ID       string
	Kind     BatchOperationKind
	Key      string
	Callback func(result *BatchResult)
}

// BatchResult is the outcome of one BatchOperation. Data holds the
// *Response returned by the matching client method.
type BatchResult struct {
	ID       string
	Success  bool
	Data     interface{}
	Error    error
	Duration time.Duration
}

// BatchExecutor runs batches of reads with bounded concurrency.
type BatchExecutor struct {
	client      Client
	concurrency int
	timeout     time.Duration
}

// NewBatchExecutor creates a new batch executor.
func NewBatchExecutor(client Client, concurrency int) *BatchExecutor {
	if concurrency <= 0 {
		concurrency = DefaultBatchConcurrency
	}

	return &BatchExecutor{
		client:      client,
		concurrency: concurrency,
		timeout:     DefaultBatchTimeout,
	}
}

// SetTimeout sets the timeout for each operation.
func (b *BatchExecutor) SetTimeout(timeout time.Duration) {
	b.timeout = timeout
}

// Execute runs operations and returns their results in input order. A
// failing operation never stops the others.
func (b *BatchExecutor) Execute(ctx context.Context, operations []BatchOperation) []BatchResult {
	results := make([]BatchResult, len(operations))

	var waitGroup sync.WaitGroup

	semaphore := make(chan struct{}, b.concurrency)

	for index, operation := range operations {
		waitGroup.Add(1)

		go func(index int, operation BatchOperation) {
			defer waitGroup.Done()

			semaphore <- struct{}{}

			defer func() { <-semaphore }()

			opCtx, cancel := context.WithTimeout(ctx, b.timeout)
			defer cancel()

			start := time.Now()
			result := b.executeOperation(opCtx, operation)
			result.Duration = time.Since(start)
			results[index] = *result

			if operation.Callback != nil {
				operation.Callback(result)
			}
		}(index, operation)
	}

	waitGroup.Wait()

	return results
}

func (b *BatchExecutor) executeOperation(ctx context.Context, operation BatchOperation) *BatchResult {
	var (
		data interface{}
		err  error
	)

	switch operation.Kind {
	case BatchGetSet:
		data, err = b.client.Sets().Get(ctx, operation.Key)
	case BatchGetBooster:
		data, err = b.client.Sets().Booster(ctx, operation.Key)
	case BatchGetCard:
		data, err = b.client.Cards().Get(ctx, operation.Key)
	case BatchGetCatalog:
		data, err = b.client.Catalog().Get(ctx, Catalog(operation.Key))
	default:
		err = fmt.Errorf("%w: %q", ErrUnknownBatchOperation, operation.Kind)
	}

	if err != nil {
		return &BatchResult{ID: operation.ID, Error: err}
	}

	return &BatchResult{ID: operation.ID, Success: true, Data: data}
}

// BatchBuilder helps build batch operations.
type BatchBuilder struct {
	operations []BatchOperation
}

// NewBatchBuilder creates a new batch builder.
func NewBatchBuilder() *BatchBuilder {
	return &BatchBuilder{}
}

// AddGetSet adds a set lookup.
func (b *BatchBuilder) AddGetSet(id, code string) *BatchBuilder {
	return b.AddOperation(BatchOperation{ID: id, Kind: BatchGetSet, Key: code})
}

// AddBooster adds a booster generation.
func (b *BatchBuilder) AddBooster(id, code string) *BatchBuilder {
	return b.AddOperation(BatchOperation{ID: id, Kind: BatchGetBooster, Key: code})
}

// AddGetCard adds a card lookup.
func (b *BatchBuilder) AddGetCard(id, cardID string) *BatchBuilder {
	return b.AddOperation(BatchOperation{ID: id, Kind: BatchGetCard, Key: cardID})
}

// AddGetCatalog adds a catalog listing.
func (b *BatchBuilder) AddGetCatalog(id string, catalog Catalog) *BatchBuilder {
	return b.AddOperation(BatchOperation{ID: id, Kind: BatchGetCatalog, Key: string(catalog)})
}

// AddOperation adds a custom operation.
func (b *BatchBuilder) AddOperation(operation BatchOperation) *BatchBuilder {
	b.operations = append(b.operations, operation)

	return b
}

// Build returns the batch operations.
func (b *BatchBuilder) Build() []BatchOperation {
	return b.operations
}

// BatchErrors joins the errors of every failed result, or returns nil.
func BatchErrors(results []BatchResult) error {
	var errs []error

	for _, result := range results {
		if result.Error != nil {
			errs = append(errs, fmt.Errorf("%s: %w", result.ID, result.Error))
		}
	}

	return errors.Join(errs...)
}
