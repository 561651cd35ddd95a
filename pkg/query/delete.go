package query

// Delete is a fluent DELETE builder.
type Delete struct {
	table string
	where Predicate
}

// DeleteFrom starts a DELETE on table.
func DeleteFrom(table string) *Delete {
	return &Delete{table: table}
}

// Where sets the row filter. Without one every row is deleted.
func (d *Delete) Where(p Predicate) *Delete {
	d.where = p
	return d
}

func (d *Delete) Render(Dialect) (string, []Value) {
	text := "DELETE FROM " + d.table
	if d.where == nil {
		return text, nil
	}
	return text + " WHERE " + d.where.String(), d.where.Values()
}

func (d *Delete) String() string {
	text, _ := d.Render(Generic)
	return text
}

func (d *Delete) Validate() error {
	if d.table == "" {
		return ErrEmptyStatement
	}
	return nil
}
