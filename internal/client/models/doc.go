// Package models defines the wire types exchanged with the payment OCR
// backend and the client-side filter criteria.
package models
