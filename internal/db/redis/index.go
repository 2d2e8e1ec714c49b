package redis

import (
	"context"
	"errors"
	"strconv"

	"github.com/kailas-cloud/bizsearch/internal/db"
	"github.com/kailas-cloud/bizsearch/internal/domain"
	"github.com/kailas-cloud/bizsearch/internal/domain/document"
)

// ensureIndex creates the FT index of the table unless it is already there.
// Tables of every replica share the index, so a concurrent create is fine.
func (s *Store) ensureIndex(ctx context.Context, family domain.Family) error {
	exists, err := s.IndexExists(ctx, s.indexName())
	if err != nil || exists {
		return err
	}
	def, err := schema(s, family)
	if err != nil {
		return err
	}
	if err := s.CreateIndex(ctx, def); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return err
	}
	return nil
}

// schema indexes the filterable fields of family over the normalized values
// of each document. Every field is a case-sensitive TAG on its value array,
// folding having been applied on write; body is TEXT. Only sortedId sorts.
func schema(s *Store, family domain.Family) (*db.IndexDefinition, error) {
	b := db.NewIndex(s.indexName()).OnJSON().Prefix(s.docPrefix())
	for _, f := range document.Filterable(family) {
		path := "$.idx." + f + "[*]"
		if f == document.FieldBody {
			b.JSONText(path, f)
			continue
		}
		b.JSONTag(path, f, f == document.FieldSortedID)
	}
	return b.Build()
}

// CreateIndex issues FT.CREATE for a table index. db.ErrIndexExists means
// the table already has one.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	args, err := buildCreateArgs(def)
	if err != nil {
		return err
	}

	cmd := s.b().Arbitrary("FT.CREATE").Args(args...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "index already exists") {
			return db.ErrIndexExists
		}
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}
	return nil
}

// IndexExists reports whether a table index is defined.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	cmd := s.b().Arbitrary("FT.INFO").Args(name).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "unknown index name") {
			return false, nil
		}
		return false, &db.Error{Op: db.OpIndexInfo, Err: err}
	}
	return true, nil
}

// buildCreateArgs renders def as FT.CREATE arguments:
// name ON storage [PREFIX n p...] SCHEMA field...
func buildCreateArgs(def *db.IndexDefinition) ([]string, error) {
	if def.Name == "" {
		return nil, errors.New("index name is required")
	}
	if len(def.Fields) == 0 {
		return nil, errors.New("at least one field is required")
	}

	storage := def.StorageType
	if storage == "" {
		storage = db.StorageHash
	}
	args := []string{def.Name, "ON", string(storage)}
	if n := len(def.Prefixes); n > 0 {
		args = append(args, "PREFIX", strconv.Itoa(n))
		args = append(args, def.Prefixes...)
	}

	args = append(args, "SCHEMA")
	for i := range def.Fields {
		fieldArgs, err := buildFieldArgs(&def.Fields[i])
		if err != nil {
			return nil, err
		}
		args = append(args, fieldArgs...)
	}
	return args, nil
}

// buildFieldArgs renders one schema entry: path [AS alias] type [options].
func buildFieldArgs(f *db.IndexField) ([]string, error) {
	if f.Name == "" {
		return nil, errors.New("field name is required")
	}

	args := []string{f.Name}
	if f.Alias != "" {
		args = append(args, "AS", f.Alias)
	}

	switch f.Type {
	case db.IndexFieldTag:
		args = append(args, "TAG")
		if f.TagSeparator != "" {
			args = append(args, "SEPARATOR", f.TagSeparator)
		}
		if f.TagCaseSensitive {
			args = append(args, "CASESENSITIVE")
		}
	case db.IndexFieldText:
		args = append(args, "TEXT")
	case db.IndexFieldNumeric:
		args = append(args, "NUMERIC")
	default:
		return nil, errors.New("unknown field type")
	}

	if f.Sortable {
		args = append(args, "SORTABLE")
	}
	return args, nil
}
