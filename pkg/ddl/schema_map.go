package ddl

import "github.com/mizuchilabs/go-isqlite/pkg/schema"

// ToTable maps an interpreted CREATE TABLE body onto pkg/schema's value
// types. It is shared by pkg/introspect (reading the whole live schema
// once) and pkg/migrate (re-reading a single table's current shape mid-
// transaction to drive a rebuild), which is why the mapping lives here
// rather than in either of those packages.
func ToTable(def *TableDef) (schema.Table, error) {
	columns := make([]schema.Column, 0, len(def.Columns))
	var liftedChecks []string

	for _, c := range def.Columns {
		col, lifted, err := ToColumn(c)
		if err != nil {
			return schema.Table{}, err
		}
		columns = append(columns, col)
		if lifted != "" {
			liftedChecks = append(liftedChecks, lifted)
		}
	}

	var tblOpts []schema.TableOption
	constraints := append(append([]string(nil), def.Constraints...), liftedChecks...)
	if len(constraints) > 0 {
		tblOpts = append(tblOpts, schema.WithConstraints(constraints...))
	}
	if def.WithoutRowID {
		tblOpts = append(tblOpts, schema.WithoutRowID())
	}

	return schema.NewTable(def.Name, columns, tblOpts...)
}

// ToColumn maps one interpreted column onto schema.Column. If the column
// carries an inline CHECK that isn't the CHECK(col IN (...)) shape
// Column.Render produces, lifted holds that CHECK as opaque table-
// constraint text instead — such a column came from SQL this package
// didn't generate, so the constraint is preserved rather than rejected.
func ToColumn(c *ColumnDef) (col schema.Column, lifted string, err error) {
	var opts []schema.ColumnOption
	if c.NotNull {
		opts = append(opts, schema.Required())
	}
	if c.Unique {
		opts = append(opts, schema.WithUnique())
	}
	if c.PrimaryKey {
		opts = append(opts, schema.WithPrimaryKey())
	}
	if c.Default != nil {
		opts = append(opts, schema.WithDefault(*c.Default))
	}
	if c.References != nil {
		action := schema.NoAction
		if c.References.OnDelete != "" {
			action = schema.ForeignKeyAction(c.References.OnDelete)
		}
		opts = append(opts, schema.WithForeignKey(c.References.Table, action))
	}
	if c.Check != nil {
		if choices, ok := ExtractChoices(c.Check, c.Name); ok {
			opts = append(opts, schema.WithChoices(choices...))
		} else {
			lifted = "CHECK" + c.Check.Raw()
		}
	}

	col, err = schema.NewColumn(c.Name, c.Type, opts...)
	return col, lifted, err
}
