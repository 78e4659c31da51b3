package visitor

import (
	"net/url"
	"strings"
	"time"
)

// Cond is a node in the filter predicate tree. Conditions compile to a
// parameterized SQL fragment evaluated by the store.
type Cond interface {
	SQL() (clause string, args []interface{})
}

// Contains matches rows whose column contains term, case-insensitively.
// A NULL column never matches.
func Contains(column, term string) Cond {
	return containsCond{column: column, term: term}
}

// Between matches rows whose column falls inside [from, to]. Either
// bound may be nil for a half-open range. Bounds are converted to UTC
// storage form, so TEXT comparison is chronological.
func Between(column string, from, to *time.Time) Cond {
	return betweenCond{column: column, from: from, to: to}
}

// And matches rows satisfying every child condition.
func And(conds ...Cond) Cond { return groupCond{op: " AND ", conds: conds} }

// Or matches rows satisfying at least one child condition.
func Or(conds ...Cond) Cond { return groupCond{op: " OR ", conds: conds} }

type containsCond struct {
	column string
	term   string
}

func (c containsCond) SQL() (string, []interface{}) {
	return c.column + ` LIKE ? ESCAPE '\'`, []interface{}{"%" + escapeLike(c.term) + "%"}
}

// escapeLike neutralizes LIKE wildcards in a user-supplied term.
func escapeLike(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(term)
}

type betweenCond struct {
	column   string
	from, to *time.Time
}

func (c betweenCond) SQL() (string, []interface{}) {
	var parts []string
	var args []interface{}
	if c.from != nil {
		parts = append(parts, c.column+" >= ?")
		args = append(args, c.from.UTC().Format(TimeLayout))
	}
	if c.to != nil {
		parts = append(parts, c.column+" <= ?")
		args = append(args, c.to.UTC().Format(TimeLayout))
	}
	if len(parts) == 0 {
		return "", nil
	}
	return "(" + strings.Join(parts, " AND ") + ")", args
}

type groupCond struct {
	op    string
	conds []Cond
}

func (g groupCond) SQL() (string, []interface{}) {
	var clauses []string
	var args []interface{}
	for _, c := range g.conds {
		clause, a := c.SQL()
		if clause == "" {
			continue
		}
		clauses = append(clauses, clause)
		args = append(args, a...)
	}
	if len(clauses) == 0 {
		return "", nil
	}
	if len(clauses) == 1 {
		return clauses[0], args
	}
	return "(" + strings.Join(clauses, g.op) + ")", args
}

// searchColumns are the fields a free-text search term is matched
// against, ORed together. Both halves of every legacy pair are listed.
var searchColumns = []string{
	"full_name", "visitor_name",
	"email", "host",
	"cnic", "visitor_cnic",
	"phone", "visitor_phone",
	"purpose",
}

// Params are the recognized filter parameters of a visitor read request.
// StartDate and EndDate are YYYY-MM-DD; unparsable dates are ignored
// rather than rejected.
type Params struct {
	Type      string
	Host      string
	Search    string
	StartDate string
	EndDate   string
}

// ParamsFromQuery extracts filter parameters from a request query string.
func ParamsFromQuery(q url.Values) Params {
	return Params{
		Type:      q.Get("type"),
		Host:      q.Get("host"),
		Search:    q.Get("search"),
		StartDate: q.Get("startDate"),
		EndDate:   q.Get("endDate"),
	}
}

// Filter builds the predicate for these parameters. The returned
// condition is nil when no parameter is set (match all).
//
// Each present parameter contributes one AND-group:
//
//	type, host         — case-insensitive substring on their column
//	search             — OR across searchColumns
//	startDate/endDate  — OR across the two timestamp columns, each
//	                     bounded to the inclusive local-day range
//
// The date OR-group and the search OR-group stay separate children of
// the AND; flattening them into one OR would match records satisfying
// either instead of both.
func (p Params) Filter() Cond {
	var conds []Cond

	if p.Type != "" {
		conds = append(conds, Contains("type", p.Type))
	}
	if p.Host != "" {
		conds = append(conds, Contains("host", p.Host))
	}

	from := parseDayStart(p.StartDate)
	to := parseDayEnd(p.EndDate)
	if from != nil || to != nil {
		conds = append(conds, Or(
			Between("entry_time", from, to),
			Between("timestamp", from, to),
		))
	}

	if p.Search != "" {
		var fields []Cond
		for _, col := range searchColumns {
			fields = append(fields, Contains(col, p.Search))
		}
		conds = append(conds, Or(fields...))
	}

	if len(conds) == 0 {
		return nil
	}
	return And(conds...)
}

// parseDayStart parses a YYYY-MM-DD value as local midnight.
func parseDayStart(s string) *time.Time {
	d, ok := parseDay(s)
	if !ok {
		return nil
	}
	t := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.Local)
	return &t
}

// parseDayEnd parses a YYYY-MM-DD value as the last millisecond of the
// local day, making the bound inclusive.
func parseDayEnd(s string) *time.Time {
	d, ok := parseDay(s)
	if !ok {
		return nil
	}
	t := time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, int(999*time.Millisecond), time.Local)
	return &t
}

func parseDay(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	d, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}
