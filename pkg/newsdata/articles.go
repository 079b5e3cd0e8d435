package newsdata

import (
	"encoding/json"
	"fmt"

	"github.com/newsdataio/newsdata-go/pkg/errors"
)

// Article is the subset of a news result shown by the CLI. The full
// vendor object stays available in the decoded body.
type Article struct {
	ArticleID   string   `json:"article_id"`
	Title       string   `json:"title"`
	Link        string   `json:"link"`
	Description string   `json:"description"`
	SourceID    string   `json:"source_id"`
	PubDate     string   `json:"pubDate"`
	Language    string   `json:"language"`
	Country     []string `json:"country"`
	Category    []string `json:"category"`
	Creator     []string `json:"creator"`
	Coin        []string `json:"coin,omitempty"`
}

// ArticlePage is one page of news results.
type ArticlePage struct {
	Status       string    `json:"status"`
	TotalResults int       `json:"totalResults"`
	Articles     []Article `json:"results"`
	NextPage     string    `json:"nextPage"`
}

// Source describes a news source from the sources endpoint.
type Source struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	URL         string   `json:"url"`
	Description string   `json:"description"`
	Country     []string `json:"country"`
	Language    []string `json:"language"`
	Category    []string `json:"category"`
}

// APIError is the error object the API returns with status "error".
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	switch {
	case e.Code != "" && e.Message != "":
		return fmt.Sprintf("api error %d: %s: %s", e.StatusCode, e.Code, e.Message)
	case e.Message != "":
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("api error %d", e.StatusCode)
	}
}

// ErrorCode reports API_ERROR, so errors.Is(err, errors.ErrCodeAPIError)
// matches any *APIError.
func (e *APIError) ErrorCode() errors.Code { return errors.ErrCodeAPIError }

// DecodeArticles converts a decoded news, archive or crypto body into an
// [ArticlePage]. Works with bodies from either [DecodeMode].
func DecodeArticles(body any) (*ArticlePage, error) {
	var page ArticlePage
	if err := remarshal(body, &page); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode articles")
	}
	return &page, nil
}

// DecodeSources converts a decoded sources body into a slice of [Source].
func DecodeSources(body any) ([]Source, error) {
	var out struct {
		Results []Source `json:"results"`
	}
	if err := remarshal(body, &out); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode sources")
	}
	return out.Results, nil
}

// CheckResponse returns an *APIError when resp carries an HTTP error
// status or an API-level error body, and nil otherwise. The engine never
// does this itself; HTTP errors are values until a caller asks.
func CheckResponse(resp *Response) error {
	if resp == nil {
		return nil
	}

	var body struct {
		Status  string          `json:"status"`
		Results json.RawMessage `json:"results"`
	}
	_ = remarshal(resp.Body, &body)

	if resp.StatusCode < 400 && body.Status != "error" {
		return nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode}
	if len(body.Results) > 0 {
		_ = json.Unmarshal(body.Results, apiErr)
	}
	return apiErr
}

func remarshal(in, out any) error {
	if in == nil {
		return nil
	}
	data, err := json.Marshal(in)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, out)
}
