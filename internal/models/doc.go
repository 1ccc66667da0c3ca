// Package models defines the records exchanged with the willette backend.
//
//   - [SoundcloudURL] : one playable track and its display position
//   - [Order] : the numeric uiOrder value, able to hold NaN from free-text edits
//   - [Credentials] : login request body
//
// [SortByOrder] gives the display order used by every view: ascending uiOrder, ties kept in input order.
package models
