// Package gorm provides GORM-based repository implementations
package gorm

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/photodish/v1/internal/domain/recipe"
)

// StringList stores an ordered string sequence as a JSON text column.
type StringList []string

// Value implements driver.Valuer
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner
func (l *StringList) Scan(value any) error {
	if value == nil {
		*l = nil
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, l)
	case string:
		return json.Unmarshal([]byte(v), l)
	default:
		return fmt.Errorf("unsupported type for StringList: %T", value)
	}
}

// SavedRecipeModel is the database model for a persisted recipe record.
// Records are append-only; there is no update path.
type SavedRecipeModel struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID       string     `gorm:"index;not null"`
	Name         string     `gorm:"not null"`
	Ingredients  StringList `gorm:"type:text;not null"`
	Instructions StringList `gorm:"type:text;not null"`
	SimpleSteps  StringList `gorm:"type:text"`
	PhotoURL     string     `gorm:"not null"`
	CreatedAt    time.Time  `gorm:"index;autoCreateTime"`
}

// TableName specifies the table name
func (SavedRecipeModel) TableName() string {
	return "saved_recipes"
}

// SavedToModel converts a domain record to the database model.
func SavedToModel(rec *recipe.Saved) *SavedRecipeModel {
	return &SavedRecipeModel{
		ID:           rec.ID,
		UserID:       rec.UserID,
		Name:         rec.Name,
		Ingredients:  StringList(rec.Ingredients),
		Instructions: StringList(rec.Instructions),
		SimpleSteps:  StringList(rec.SimpleInstructions),
		PhotoURL:     rec.PhotoURL,
		CreatedAt:    rec.CreatedAt,
	}
}

// ModelToSaved converts a database model to the domain record.
func ModelToSaved(m *SavedRecipeModel) *recipe.Saved {
	return &recipe.Saved{
		ID:     m.ID,
		UserID: m.UserID,
		Recipe: recipe.Recipe{
			Name:               m.Name,
			Ingredients:        []string(m.Ingredients),
			Instructions:       []string(m.Instructions),
			SimpleInstructions: []string(m.SimpleSteps),
		},
		PhotoURL:  m.PhotoURL,
		CreatedAt: m.CreatedAt,
	}
}
