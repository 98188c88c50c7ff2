package devserver

import (
	"errors"
	"sort"
	"sync"
	"time"

	domain "github.com/whiteelite/cookadmin/internal/domain/entities"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrUnknownCategory = errors.New("unknown ingredient category")
	ErrCategoryInUse   = errors.New("category in use")
)

// Store keeps the three collections in memory. Ids are assigned per
// collection starting at 1 and never reused.
type Store struct {
	mu sync.RWMutex

	categories  map[int64]domain.IngredientCategory
	ingredients map[int64]domain.Ingredient
	dishes      map[int64]domain.DishCategory

	nextCategory   int64
	nextIngredient int64
	nextDish       int64

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		categories:  make(map[int64]domain.IngredientCategory),
		ingredients: make(map[int64]domain.Ingredient),
		dishes:      make(map[int64]domain.DishCategory),
		now:         time.Now,
	}
}

func sortedValues[T interface{ GetID() int64 }](m map[int64]T) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GetID() < out[j].GetID() })
	return out
}

func (s *Store) Categories() []domain.IngredientCategory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.categories)
}

func (s *Store) AddCategory(in domain.CreateIngredientCategory) domain.IngredientCategory {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextCategory++
	now := s.now().UTC()
	rec := domain.IngredientCategory{ID: s.nextCategory, TypeName: in.TypeName, CreatedAt: &now, UpdatedAt: &now}
	s.categories[rec.ID] = rec
	return rec
}

func (s *Store) UpdateCategory(in domain.UpdateIngredientCategory) (domain.IngredientCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.categories[in.ID]
	if !ok {
		return domain.IngredientCategory{}, ErrNotFound
	}
	now := s.now().UTC()
	rec.TypeName = in.TypeName
	rec.UpdatedAt = &now
	s.categories[rec.ID] = rec
	return rec, nil
}

func (s *Store) DeleteCategory(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[id]; !ok {
		return ErrNotFound
	}
	for _, ing := range s.ingredients {
		if ing.TypeID == id {
			return ErrCategoryInUse
		}
	}
	delete(s.categories, id)
	return nil
}

// Ingredients returns every ingredient with IngredientType filled from the
// current category record.
func (s *Store) Ingredients() []domain.Ingredient {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := sortedValues(s.ingredients)
	for i := range out {
		if cat, ok := s.categories[out[i].TypeID]; ok {
			out[i].IngredientType = &cat
		}
	}
	return out
}

func (s *Store) AddIngredient(in domain.CreateIngredient) (domain.Ingredient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.categories[in.TypeID]; !ok {
		return domain.Ingredient{}, ErrUnknownCategory
	}
	s.nextIngredient++
	rec := domain.Ingredient{ID: s.nextIngredient, IngredientName: in.IngredientName, TypeID: in.TypeID}
	s.ingredients[rec.ID] = rec
	return rec, nil
}

func (s *Store) UpdateIngredient(in domain.UpdateIngredient) (domain.Ingredient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ingredients[in.ID]; !ok {
		return domain.Ingredient{}, ErrNotFound
	}
	if _, ok := s.categories[in.TypeID]; !ok {
		return domain.Ingredient{}, ErrUnknownCategory
	}
	rec := domain.Ingredient{ID: in.ID, IngredientName: in.IngredientName, TypeID: in.TypeID}
	s.ingredients[rec.ID] = rec
	return rec, nil
}

func (s *Store) DeleteIngredient(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ingredients[id]; !ok {
		return ErrNotFound
	}
	delete(s.ingredients, id)
	return nil
}

func (s *Store) DishCategories() []domain.DishCategory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedValues(s.dishes)
}

func (s *Store) AddDishCategory(in domain.CreateDishCategory) domain.DishCategory {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextDish++
	rec := domain.DishCategory{ID: s.nextDish, Name: in.Name}
	s.dishes[rec.ID] = rec
	return rec
}

func (s *Store) UpdateDishCategory(in domain.UpdateDishCategory) (domain.DishCategory, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.dishes[in.ID]; !ok {
		return domain.DishCategory{}, ErrNotFound
	}
	rec := domain.DishCategory{ID: in.ID, Name: in.Name}
	s.dishes[rec.ID] = rec
	return rec, nil
}

func (s *Store) DeleteDishCategory(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.dishes[id]; !ok {
		return ErrNotFound
	}
	delete(s.dishes, id)
	return nil
}
