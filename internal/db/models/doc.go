// Package models contains database model definitions. Table names keep the
// Portuguese names of the legacy schema so existing databases migrate in
// place.
package models
