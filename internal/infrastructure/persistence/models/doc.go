// Package models contains the gorm persistence models and their mapping to
// domain entities. Domain packages never import gorm; repositories convert at
// the boundary with ToDomain/FromDomain.
package models
