// Package query builds multi-stage read pipelines over the store. A
// Pipeline is an ordered list of stage descriptors interpreted against a
// gorm handle in a fixed order: filter, sort, join, project, paginate.
// Filtering runs first so later stages (joins in particular) only ever see
// the shrunken set, and the matching-row count is taken on the filtered set
// before the page window is applied.
package query

import (
	"fmt"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type filterStage struct {
	cond string
	args []interface{}
}

type joinStage struct {
	table string
	on    string
}

type sortStage struct {
	column string
	desc   bool
}

type pageStage struct {
	number int
	size   int
}

type Pipeline struct {
	table   string
	filters []filterStage
	sort    *sortStage
	joins   []joinStage
	project []string
	page    *pageStage
}

func New(table string) *Pipeline {
	return &Pipeline{table: table}
}

// Filter appends a predicate stage. cond uses placeholder syntax.
func (p *Pipeline) Filter(cond string, args ...interface{}) *Pipeline {
	p.filters = append(p.filters, filterStage{cond: cond, args: args})
	return p
}

// SortBy sets the sort stage. column is spliced into SQL and must come from
// an allowlist, never from raw request input.
func (p *Pipeline) SortBy(column string, desc bool) *Pipeline {
	p.sort = &sortStage{column: column, desc: desc}
	return p
}

// Join appends an inner-join stage against table with the given condition.
func (p *Pipeline) Join(table, on string) *Pipeline {
	p.joins = append(p.joins, joinStage{table: table, on: on})
	return p
}

// Project sets the output column allowlist.
func (p *Pipeline) Project(columns ...string) *Pipeline {
	p.project = columns
	return p
}

// Paginate sets the page window. number is 1-based.
func (p *Pipeline) Paginate(number, size int) *Pipeline {
	p.page = &pageStage{number: number, size: size}
	return p
}

// filtered returns the base query with all filter stages applied.
func (p *Pipeline) filtered(db *gorm.DB) *gorm.DB {
	tx := db.Table(p.table)
	for _, f := range p.filters {
		tx = tx.Where(f.cond, f.args...)
	}
	return tx
}

// Count returns the number of rows matching the filter stages.
func (p *Pipeline) Count(db *gorm.DB) (int64, error) {
	var total int64
	if err := p.filtered(db).Count(&total).Error; err != nil {
		return 0, errors.Wrap(err, "pipeline count failed")
	}
	return total, nil
}

// Run interprets the stages in order and scans the result rows into out,
// which must be a pointer to a slice of a row struct matching the
// projection.
func (p *Pipeline) Run(db *gorm.DB, out interface{}) error {
	tx := p.filtered(db)
	if p.sort != nil {
		dir := "ASC"
		if p.sort.desc {
			dir = "DESC"
		}
		tx = tx.Order(fmt.Sprintf("%s %s", p.sort.column, dir))
	}
	for _, j := range p.joins {
		tx = tx.Joins(fmt.Sprintf("JOIN %s ON %s", j.table, j.on))
	}
	if len(p.project) > 0 {
		tx = tx.Select(p.project)
	}
	if p.page != nil {
		tx = tx.Offset((p.page.number - 1) * p.page.size).Limit(p.page.size)
	}
	if err := tx.Scan(out).Error; err != nil {
		return errors.Wrap(err, "pipeline execution failed")
	}
	return nil
}
