package visitor

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Repository provides read and aggregate access to the visitors table.
type Repository struct {
	db *sql.DB
}

// NewRepository creates a visitor repository.
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const selectColumns = `id, type, full_name, visitor_name, cnic, visitor_cnic,
	email, phone, visitor_phone, host, purpose,
	entry_time, timestamp, exit_time,
	is_group_visit, group_id, total_members, group_members, created_at`

const insertSQL = `INSERT INTO visitors
	(id, type, full_name, visitor_name, cnic, visitor_cnic,
	 email, phone, visitor_phone, host, purpose,
	 entry_time, timestamp, exit_time,
	 is_group_visit, group_id, total_members, group_members)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

// Insert adds a new record and returns it with its assigned ID.
func (r *Repository) Insert(rec *Record) (*Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	var members interface{}
	if len(rec.GroupMembers) > 0 {
		data, err := json.Marshal(rec.GroupMembers)
		if err != nil {
			return nil, fmt.Errorf("encoding group members: %w", err)
		}
		members = string(data)
	}

	_, err := r.db.Exec(insertSQL,
		rec.ID, rec.Type,
		nullable(rec.FullName), nullable(rec.VisitorName),
		nullable(rec.CNIC), nullable(rec.VisitorCNIC),
		nullable(rec.Email),
		nullable(rec.Phone), nullable(rec.VisitorPhone),
		rec.Host, rec.Purpose,
		storedTime(rec.EntryTime), storedTime(rec.Timestamp), storedTime(rec.ExitTime),
		rec.IsGroupVisit, nullable(rec.GroupID), rec.TotalMembers, members,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting visitor: %w", err)
	}

	return r.GetByID(rec.ID)
}

// GetByID returns a record by its ID.
func (r *Repository) GetByID(id string) (*Record, error) {
	query := fmt.Sprintf("SELECT %s FROM visitors WHERE id = ?", selectColumns)
	rec, err := scanRecord(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("visitor %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("querying visitor %s: %w", id, err)
	}
	return rec, nil
}

// Find returns all records matching cond. A nil cond matches every row.
// Ordering is left to the caller; recency sorting needs the resolved
// effective timestamp, which only exists after scanning.
func (r *Repository) Find(cond Cond) ([]*Record, error) {
	query := fmt.Sprintf("SELECT %s FROM visitors", selectColumns)
	clause, args := whereSQL(cond)
	query += clause

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying visitors: %w", err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			fmt.Printf("warning: closing rows: %v\n", cerr)
		}
	}()

	var records []*Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning visitor: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// Count returns the number of records matching cond.
func (r *Repository) Count(cond Cond) (int, error) {
	query := "SELECT COUNT(*) FROM visitors"
	clause, args := whereSQL(cond)
	query += clause

	var count int
	if err := r.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting visitors: %w", err)
	}
	return count, nil
}

// GroupCount is one bucket of a group-by aggregation. The field names
// mirror the aggregation output the dashboard consumes.
type GroupCount struct {
	ID    string `json:"_id"`
	Count int    `json:"count"`
}

// GroupCounts groups all records by column and counts each group,
// ordered by count descending. Equal counts order ascending by group
// key so the result is deterministic. A limit <= 0 means no limit.
func (r *Repository) GroupCounts(column string, limit int) ([]GroupCount, error) {
	query := fmt.Sprintf(
		"SELECT %s, COUNT(*) AS n FROM visitors GROUP BY %s ORDER BY n DESC, %s ASC",
		column, column, column,
	)
	var args []interface{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("grouping visitors by %s: %w", column, err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			fmt.Printf("warning: closing rows: %v\n", cerr)
		}
	}()

	groups := []GroupCount{}
	for rows.Next() {
		var g GroupCount
		if err := rows.Scan(&g.ID, &g.Count); err != nil {
			return nil, fmt.Errorf("scanning group: %w", err)
		}
		groups = append(groups, g)
	}

	return groups, rows.Err()
}

// Distinct returns the sorted distinct non-blank values of column.
// Used to populate the dashboard's filter dropdowns.
func (r *Repository) Distinct(column string) ([]string, error) {
	query := fmt.Sprintf(
		"SELECT DISTINCT %s FROM visitors WHERE %s IS NOT NULL AND TRIM(%s) != '' ORDER BY %s",
		column, column, column, column,
	)

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("selecting distinct %s: %w", column, err)
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			fmt.Printf("warning: closing rows: %v\n", cerr)
		}
	}()

	values := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scanning value: %w", err)
		}
		values = append(values, v)
	}

	return values, rows.Err()
}

// whereSQL compiles a condition into a WHERE clause, or returns the
// empty string for a nil (match-all) condition.
func whereSQL(cond Cond) (string, []interface{}) {
	if cond == nil {
		return "", nil
	}
	clause, args := cond.SQL()
	if clause == "" {
		return "", nil
	}
	return " WHERE " + clause, args
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(s scanner) (*Record, error) {
	var rec Record
	var fullName, visitorName, cnic, visitorCNIC sql.NullString
	var email, phone, visitorPhone, groupID, members sql.NullString
	var entryTime, timestamp, exitTime sql.NullString
	var totalMembers sql.NullInt64

	err := s.Scan(
		&rec.ID, &rec.Type,
		&fullName, &visitorName, &cnic, &visitorCNIC,
		&email, &phone, &visitorPhone,
		&rec.Host, &rec.Purpose,
		&entryTime, &timestamp, &exitTime,
		&rec.IsGroupVisit, &groupID, &totalMembers, &members,
		&rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	rec.FullName = fullName.String
	rec.VisitorName = visitorName.String
	rec.CNIC = cnic.String
	rec.VisitorCNIC = visitorCNIC.String
	rec.Email = email.String
	rec.Phone = phone.String
	rec.VisitorPhone = visitorPhone.String
	rec.GroupID = groupID.String

	if rec.EntryTime, err = parseStoredTime(entryTime); err != nil {
		return nil, fmt.Errorf("parsing entry_time: %w", err)
	}
	if rec.Timestamp, err = parseStoredTime(timestamp); err != nil {
		return nil, fmt.Errorf("parsing timestamp: %w", err)
	}
	if rec.ExitTime, err = parseStoredTime(exitTime); err != nil {
		return nil, fmt.Errorf("parsing exit_time: %w", err)
	}

	if totalMembers.Valid {
		n := int(totalMembers.Int64)
		rec.TotalMembers = &n
	}
	if members.Valid && members.String != "" {
		if err := json.Unmarshal([]byte(members.String), &rec.GroupMembers); err != nil {
			return nil, fmt.Errorf("decoding group members: %w", err)
		}
	}

	return &rec, nil
}

// storedTime converts a timestamp to its UTC storage form, or NULL.
func storedTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC().Format(TimeLayout)
}

// parseStoredTime parses a stored timestamp column. Rows written before
// the fixed-width format landed may carry plain RFC 3339.
func parseStoredTime(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := time.Parse(TimeLayout, s.String)
	if err != nil {
		t, err = time.Parse(time.RFC3339, s.String)
		if err != nil {
			return nil, err
		}
	}
	t = t.UTC()
	return &t, nil
}

// nullable maps the empty string to NULL so legacy-pair resolution can
// distinguish absent values.
func nullable(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
