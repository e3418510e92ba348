// Package entity defines the domain model for the product feature.
package entity

import "time"

// Product is a catalog item.
// Thumbnail is set to the first image on creation; later updates may set it to
// any value, including one that is not in Images.
type Product struct {
	ID          uint     `gorm:"primaryKey"`
	SKU         string   `gorm:"uniqueIndex;size:100;not null"`
	Name        string   `gorm:"size:255;not null;index"`
	Description string   `gorm:"type:text;not null"`
	Quantity    int      `gorm:"not null"`
	Images      []string `gorm:"serializer:json;type:text"`
	Thumbnail   *string  `gorm:"size:255"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ImageNames returns every stored filename the product references, images
// first, then the thumbnail when it is not already one of them.
func (p *Product) ImageNames() []string {
	names := make([]string, 0, len(p.Images)+1)
	seen := make(map[string]struct{}, len(p.Images)+1)
	for _, name := range p.Images {
		if _, ok := seen[name]; ok || name == "" {
			continue
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	if p.Thumbnail != nil && *p.Thumbnail != "" {
		if _, ok := seen[*p.Thumbnail]; !ok {
			names = append(names, *p.Thumbnail)
		}
	}
	return names
}
