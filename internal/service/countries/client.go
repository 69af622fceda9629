// Package countries fetches the dial-code list backing the login form.
package countries

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
)

// DefaultEndpoint is the public REST Countries listing with just the fields
// the login form needs.
const DefaultEndpoint = "https://restcountries.com/v3.1/all?fields=name,idd,cca2,flags"

// Country is one selectable dial-code entry.
type Country struct {
	Code     string `json:"code"`
	DialCode string `json:"dialCode"`
	Flag     string `json:"flag"`
	Name     string `json:"name"`
}

type restCountry struct {
	Name struct {
		Common string `json:"common"`
	} `json:"name"`
	IDD struct {
		Root     string   `json:"root"`
		Suffixes []string `json:"suffixes"`
	} `json:"idd"`
	CCA2  string `json:"cca2"`
	Flags struct {
		Emoji string `json:"emoji"`
		PNG   string `json:"png"`
	} `json:"flags"`
}

// Client caches the first successful country list; every failure degrades
// to an empty list, never an error.
type Client struct {
	http     *resty.Client
	endpoint string

	mu     sync.Mutex
	cached []Country
}

// NewClient targets the given endpoint, falling back to DefaultEndpoint
// when empty.
func NewClient(endpoint string) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	client := resty.New().
		SetHeader("User-Agent", "Gemini-Chat-Backend/1.0").
		SetTimeout(10 * time.Second)

	return &Client{http: client, endpoint: endpoint}
}

// Fetch returns the cached list or fetches it. Entries without a dial code
// are dropped; on any failure the empty list is returned.
func (c *Client) Fetch(ctx context.Context) []Country {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cached != nil {
		return append([]Country(nil), c.cached...)
	}

	var raw []restCountry
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&raw).
		Get(c.endpoint)
	if err != nil {
		log.Printf("[countries] fetch failed: %v", err)
		return []Country{}
	}
	if resp.IsError() {
		log.Printf("[countries] fetch failed: status %d", resp.StatusCode())
		return []Country{}
	}

	list := make([]Country, 0, len(raw))
	for _, entry := range raw {
		dialCode := entry.IDD.Root
		if dialCode == "" {
			continue
		}
		if len(entry.IDD.Suffixes) > 0 {
			dialCode += entry.IDD.Suffixes[0]
		}
		flag := entry.Flags.Emoji
		if flag == "" {
			flag = entry.Flags.PNG
		}
		list = append(list, Country{
			Code:     entry.CCA2,
			DialCode: dialCode,
			Flag:     flag,
			Name:     entry.Name.Common,
		})
	}

	c.cached = list
	return append([]Country(nil), list...)
}
