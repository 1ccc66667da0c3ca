// Package ui implements the interactive admin page using bubbletea's Elm architecture.
//
// The page has three modes:
//  1. [BrowseMode] : move through the records and trigger delete, save and refresh
//  2. [EditMode] : type a new uiOrder for the selected record
//  3. [FormMode] : fill the username, password and new url fields
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern. Key presses are translated into
// admin messages and every state change goes through [admin.Controller.Update]; the commands it returns run on the
// bubbletea runtime, so the last backend response to arrive wins.
//
// Keyboard navigation uses vim-style bindings (j/k, e, d, s, a, l, q) with contextual help displayed via
// charmbracelet/bubbles/help.
package ui
