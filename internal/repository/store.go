package repository

import (
	"context"
	"errors"

	"financeiro/internal/pagination"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound is returned when no row matches the requested id.
var ErrNotFound = errors.New("record not found")

// Option narrows or decorates a query.
type Option = func(*gorm.DB) *gorm.DB

// Preload eager-loads an association.
func Preload(query string, args ...any) Option {
	return func(db *gorm.DB) *gorm.DB { return db.Preload(query, args...) }
}

// Where adds a condition.
func Where(query any, args ...any) Option {
	return func(db *gorm.DB) *gorm.DB { return db.Where(query, args...) }
}

// OrderBy adds an ordering on a trusted column expression.
func OrderBy(column string, desc bool) Option {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc})
	}
}

// Store is the generic repository every entity is persisted through.
type Store[T any] interface {
	FindByID(ctx context.Context, id int64, opts ...Option) (*T, error)
	FindOne(ctx context.Context, opts ...Option) (*T, error)
	FindAll(ctx context.Context, opts ...Option) ([]T, error)
	FindPage(ctx context.Context, page pagination.PageRequest, opts ...Option) (pagination.Page[T], error)
	Count(ctx context.Context, opts ...Option) (int64, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Save(ctx context.Context, entity *T) error
	Update(ctx context.Context, id int64, values map[string]any) error
	Delete(ctx context.Context, id int64) error
	DeleteWhere(ctx context.Context, opts ...Option) (int64, error)
	ReplaceAssociation(ctx context.Context, entity *T, name string, values any) error
	ClearAssociation(ctx context.Context, entity *T, name string) error
}

// GormStore implements Store over GORM.
type GormStore[T any] struct {
	db *gorm.DB
}

// NewStore creates a GormStore for T.
func NewStore[T any](db *gorm.DB) *GormStore[T] {
	return &GormStore[T]{db: db}
}

var _ Store[struct{}] = (*GormStore[struct{}])(nil)

func (s *GormStore[T]) conn(ctx context.Context) *gorm.DB {
	return Conn(ctx, s.db)
}

func byID(id int64) clause.Expression {
	return clause.Eq{Column: clause.PrimaryColumn, Value: id}
}

// FindByID loads the entity with the given primary key.
func (s *GormStore[T]) FindByID(ctx context.Context, id int64, opts ...Option) (*T, error) {
	var entity T
	err := s.conn(ctx).Scopes(opts...).Where(byID(id)).Take(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entity, nil
}

// FindOne loads the first entity matching opts.
func (s *GormStore[T]) FindOne(ctx context.Context, opts ...Option) (*T, error) {
	var entity T
	err := s.conn(ctx).Scopes(opts...).Take(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entity, nil
}

// FindAll loads every entity matching opts.
func (s *GormStore[T]) FindAll(ctx context.Context, opts ...Option) ([]T, error) {
	var entities []T
	if err := s.conn(ctx).Scopes(opts...).Find(&entities).Error; err != nil {
		return nil, err
	}
	return entities, nil
}

// FindPage loads one page of entities matching opts, ordered by page.Orders.
func (s *GormStore[T]) FindPage(ctx context.Context, page pagination.PageRequest, opts ...Option) (pagination.Page[T], error) {
	page.Defaults()

	var total int64
	if err := s.conn(ctx).Model(new(T)).Scopes(opts...).Count(&total).Error; err != nil {
		return pagination.Page[T]{}, err
	}

	var entities []T
	if err := s.conn(ctx).Scopes(opts...).Scopes(pagination.Paginate(page)).Find(&entities).Error; err != nil {
		return pagination.Page[T]{}, err
	}

	return pagination.NewPage(entities, page, total), nil
}

// Count returns the number of entities matching opts.
func (s *GormStore[T]) Count(ctx context.Context, opts ...Option) (int64, error) {
	var count int64
	err := s.conn(ctx).Model(new(T)).Scopes(opts...).Count(&count).Error
	return count, err
}

// Exists reports whether an entity with the given primary key exists.
func (s *GormStore[T]) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	if err := s.conn(ctx).Model(new(T)).Where(byID(id)).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save inserts a new entity or updates every column of an existing one.
// Associations are never written; use ReplaceAssociation for those.
func (s *GormStore[T]) Save(ctx context.Context, entity *T) error {
	return s.conn(ctx).Omit(clause.Associations).Save(entity).Error
}

// Update sets the given columns on the entity with the given primary key.
func (s *GormStore[T]) Update(ctx context.Context, id int64, values map[string]any) error {
	result := s.conn(ctx).Model(new(T)).Where(byID(id)).Updates(values)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the entity with the given primary key. Deleting a missing
// row is not an error.
func (s *GormStore[T]) Delete(ctx context.Context, id int64) error {
	return s.conn(ctx).Where(byID(id)).Delete(new(T)).Error
}

// DeleteWhere removes every entity matching opts and returns the count.
func (s *GormStore[T]) DeleteWhere(ctx context.Context, opts ...Option) (int64, error) {
	result := s.conn(ctx).Scopes(opts...).Delete(new(T))
	return result.RowsAffected, result.Error
}

// ReplaceAssociation replaces the named many-to-many association of entity.
func (s *GormStore[T]) ReplaceAssociation(ctx context.Context, entity *T, name string, values any) error {
	return s.conn(ctx).Model(entity).Association(name).Replace(values)
}

// ClearAssociation removes every link of the named association of entity.
func (s *GormStore[T]) ClearAssociation(ctx context.Context, entity *T, name string) error {
	return s.conn(ctx).Model(entity).Association(name).Clear()
}
