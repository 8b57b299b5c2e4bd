package model

// Quote is one record of the curated quotes dataset.
//
// IDs are assigned at seeding time from the source position
// ("<character>-<index>") and stay stable across reads and updates.
type Quote struct {
	ID        string `json:"id"`
	Quote     string `json:"quote"`
	Character string `json:"character"`
}
