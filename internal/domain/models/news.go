package models

import "time"

// Sentiment labels ordered from most positive to most negative.
const (
	SentimentPositive         = "positive"
	SentimentSlightlyPositive = "slightly positive"
	SentimentNeutral          = "neutral"
	SentimentSlightlyNegative = "slightly negative"
	SentimentNegative         = "negative"
)

// NewsItem is a scored news headline shown on the dashboard.
type NewsItem struct {
	ID             string    `json:"id"`
	Timestamp      time.Time `json:"timestamp"`
	Source         string    `json:"source"`
	Title          string    `json:"title"`
	Snippet        string    `json:"snippet,omitempty"`
	URL            string    `json:"url"`
	SentimentScore float64   `json:"sentiment_score"`
	SentimentLabel string    `json:"sentiment_label"`
	RelatedCoins   []string  `json:"related_coins,omitempty"`
}
