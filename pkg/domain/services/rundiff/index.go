package rundiff

import "github.com/vsinha/mrplog/pkg/domain/entities"

type jobRecord struct {
	// first error entry for the job, else its first entry
	representative *entities.LogEntry
	// last entries carrying a due date and a quantity
	dueDate  *entities.LogEntry
	quantity *entities.LogEntry
	// first error logged against the job with no part
	jobError *entities.LogEntry
}

type jobIndex struct {
	order   []string
	records map[string]*jobRecord
}

func indexJobs(doc *entities.LogDocument) *jobIndex {
	index := &jobIndex{records: make(map[string]*jobRecord)}
	for i := range doc.Entries {
		entry := &doc.Entries[i]
		if entry.JobNumber == "" {
			continue
		}

		rec, ok := index.records[entry.JobNumber]
		if !ok {
			rec = &jobRecord{representative: entry}
			index.records[entry.JobNumber] = rec
			index.order = append(index.order, entry.JobNumber)
		}
		if entry.HasError() && !rec.representative.HasError() {
			rec.representative = entry
		}
		if entry.HasError() && entry.PartNumber == "" && rec.jobError == nil {
			rec.jobError = entry
		}
		if entry.DueDate != nil {
			rec.dueDate = entry
		}
		if entry.Quantity.Valid {
			rec.quantity = entry
		}
	}
	return index
}

type partIndex struct {
	errorOrder []string
	firstError map[string]*entities.LogEntry
	firstEntry map[string]*entities.LogEntry
}

func indexParts(doc *entities.LogDocument) *partIndex {
	index := &partIndex{
		firstError: make(map[string]*entities.LogEntry),
		firstEntry: make(map[string]*entities.LogEntry),
	}
	for i := range doc.Entries {
		entry := &doc.Entries[i]
		if entry.PartNumber == "" {
			continue
		}
		if _, ok := index.firstEntry[entry.PartNumber]; !ok {
			index.firstEntry[entry.PartNumber] = entry
		}
		if entry.HasError() {
			if _, ok := index.firstError[entry.PartNumber]; !ok {
				index.firstError[entry.PartNumber] = entry
				index.errorOrder = append(index.errorOrder, entry.PartNumber)
			}
		}
	}
	return index
}

// unkeyedErrors indexes error entries with neither job nor part by message.
func unkeyedErrors(doc *entities.LogDocument) (map[string]*entities.LogEntry, []string) {
	byMessage := make(map[string]*entities.LogEntry)
	var order []string
	for i := range doc.Entries {
		entry := &doc.Entries[i]
		if !entry.HasError() || entry.JobNumber != "" || entry.PartNumber != "" {
			continue
		}
		if _, ok := byMessage[entry.ErrorMessage]; !ok {
			byMessage[entry.ErrorMessage] = entry
			order = append(order, entry.ErrorMessage)
		}
	}
	return byMessage, order
}
