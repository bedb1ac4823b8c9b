// Copyright (c) 2026 YaMDb. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// ReferenceTable describes the shape shared by 'catalog.genre' and 'catalog.category'.
type ReferenceTable struct {
	Table string
	ID    string
	Name  string
	Slug  string
}

// CatalogGenre is the schema definition for catalog.genre
var CatalogGenre = ReferenceTable{
	Table: "catalog.genre",
	ID:    "id",
	Name:  "name",
	Slug:  "slug",
}

// CatalogCategory is the schema definition for catalog.category
var CatalogCategory = ReferenceTable{
	Table: "catalog.category",
	ID:    "id",
	Name:  "name",
	Slug:  "slug",
}

// Columns returns all standard column names
func (t ReferenceTable) Columns() []string {
	return []string{t.ID, t.Name, t.Slug}
}
