package seeder

import (
	"github.com/hashicorp/go-multierror"

	"github.com/armadaproject/cmsbench/pkg/client/domain"
)

// ItemResult is the outcome of creating one record. Exactly one of Record and Err is meaningful.
type ItemResult struct {
	Index  int
	Record domain.CreatedRecord
	Err    error
}

func (r ItemResult) Succeeded() bool {
	return r.Err == nil
}

// BatchResult holds the outcome of every item in a batch, in submission order.
type BatchResult struct {
	Collection string
	Requested  int
	Items      []ItemResult
}

// Created returns the records that were accepted, in submission order.
func (b *BatchResult) Created() []domain.CreatedRecord {
	created := make([]domain.CreatedRecord, 0, len(b.Items))
	for _, item := range b.Items {
		if item.Succeeded() {
			created = append(created, item.Record)
		}
	}
	return created
}

func (b *BatchResult) Ids() []domain.Id {
	ids := make([]domain.Id, 0, len(b.Items))
	for _, record := range b.Created() {
		ids = append(ids, record.Id)
	}
	return ids
}

func (b *BatchResult) Failures() []ItemResult {
	var failures []ItemResult
	for _, item := range b.Items {
		if !item.Succeeded() {
			failures = append(failures, item)
		}
	}
	return failures
}

// Err aggregates every item failure, or returns nil if there were none.
func (b *BatchResult) Err() error {
	var result *multierror.Error
	for _, item := range b.Failures() {
		result = multierror.Append(result, item.Err)
	}
	return result.ErrorOrNil()
}

// Report collects the batches of one seeding run. A batch is nil if it was skipped.
type Report struct {
	Authors  *BatchResult
	Tags     *BatchResult
	Articles *BatchResult
}

func (r *Report) Batches() []*BatchResult {
	var batches []*BatchResult
	for _, b := range []*BatchResult{r.Authors, r.Tags, r.Articles} {
		if b != nil {
			batches = append(batches, b)
		}
	}
	return batches
}
