// Package model defines the flat data types shared across the engine:
// stored records, write outcomes, and scored search results.
package model
