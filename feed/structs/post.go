package structs

import "time"

// Post is a single feed entry.
type Post struct {
	ID          string    `json:"id"`
	Text        string    `json:"text"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	YouTubeLink string    `json:"youtubeLink,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
	UserID      string    `json:"userId"`
	UserName    string    `json:"userName"`
	// Pending marks a local copy whose Timestamp is a client placeholder.
	Pending bool `json:"pending,omitempty"`
}

// Draft holds the raw values of the creation form.
type Draft struct {
	Text      string `json:"text" form:"text" validate:"required"`
	ImageURL  string `json:"imageUrl" form:"image_url"`
	VideoLink string `json:"youtubeLink" form:"youtube_link"`
}

// Identity is the active session.
type Identity struct {
	UID         string `json:"uid"`
	DisplayName string `json:"displayName"`
}

// ListPosts is the JSON list body.
type ListPosts struct {
	Items []*Post `json:"items"`
	Total int     `json:"total"`
}
