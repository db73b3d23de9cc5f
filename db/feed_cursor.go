package db

import (
	"encoding/base64"
	"errors"
	"strconv"
	"strings"
)

var ErrInvalidCursor = errors.New("invalid cursor")

// FeedCursor marks the last post of a page. The next page holds posts
// strictly older than it, ties on createdOn broken by _id.
type FeedCursor struct {
	CreatedOn int64
	PostId    string
}

func (c *FeedCursor) Encode() string {
	payload := strconv.FormatInt(c.CreatedOn, 10) + "::" + c.PostId
	return base64.URLEncoding.EncodeToString([]byte(payload))
}

// DecodeFeedCursor returns nil for an empty token (first page).
func DecodeFeedCursor(token string) (*FeedCursor, error) {
	if token == "" {
		return nil, nil
	}

	decoded, err := base64.URLEncoding.DecodeString(token)
	if err != nil {
		return nil, ErrInvalidCursor
	}

	parts := strings.SplitN(string(decoded), "::", 2)
	if len(parts) != 2 || parts[1] == "" {
		return nil, ErrInvalidCursor
	}

	createdOn, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil || createdOn < 0 {
		return nil, ErrInvalidCursor
	}

	return &FeedCursor{CreatedOn: createdOn, PostId: parts[1]}, nil
}
