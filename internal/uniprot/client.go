// Package uniprot fetches wild-type protein sequences and annotations
// from the UniProtKB REST API.
package uniprot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/evotrace/evotrace/internal/seq"
)

const defaultBaseURL = "https://rest.uniprot.org/uniprotkb"

// ErrNotFound marks an invalid or unknown accession (HTTP 400/404), as
// opposed to transient network failures.
var ErrNotFound = errors.New("UniProt accession not found or invalid")

// Record is a fetched WT protein.
type Record struct {
	Accession string
	Header    string
	Sequence  string
}

// Feature is one UniProt sequence annotation (active site, binding
// region, and so on).
type Feature struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Location    struct {
		Start struct {
			Value int `json:"value"`
		} `json:"start"`
		End struct {
			Value int `json:"value"`
		} `json:"end"`
	} `json:"location"`
}

// Client talks to the UniProtKB REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      *DiskCache
}

// NewClient creates a client against the public UniProt endpoint.
func NewClient() *Client {
	return NewClientWithBaseURL(defaultBaseURL)
}

// NewClientWithBaseURL creates a client against a custom endpoint,
// primarily for tests.
func NewClientWithBaseURL(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// FetchProtein retrieves the FASTA record for an accession and returns
// the cleaned, validated protein sequence.
func (c *Client) FetchProtein(accession string) (*Record, error) {
	body, err := c.get(fmt.Sprintf("%s/%s.fasta", c.baseURL, accession), accession)
	if err != nil {
		return nil, err
	}

	records, err := seq.ParseFASTA(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse UniProt FASTA for %s: %w", accession, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("UniProt returned no FASTA record for %s", accession)
	}

	protein := seq.Clean(records[0].Seq)
	if err := seq.ValidateProtein(protein); err != nil {
		return nil, fmt.Errorf("UniProt sequence for %s: %w", accession, err)
	}

	return &Record{
		Accession: accession,
		Header:    records[0].Header,
		Sequence:  protein,
	}, nil
}

// FetchFeatures retrieves the sequence annotations for an accession.
func (c *Client) FetchFeatures(accession string) ([]Feature, error) {
	body, err := c.get(fmt.Sprintf("%s/%s.json", c.baseURL, accession), accession)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Features []Feature `json:"features"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("decode UniProt response for %s: %w", accession, err)
	}
	return payload.Features, nil
}

// SetCache enables disk caching of responses.
func (c *Client) SetCache(cache *DiskCache) {
	c.cache = cache
}

func (c *Client) get(url, accession string) ([]byte, error) {
	if c.cache != nil {
		if body, ok := c.cache.Get(url); ok {
			return body, nil
		}
	}

	resp, err := c.httpClient.Get(url)
	if err != nil {
		return nil, fmt.Errorf("UniProt request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, accession)
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("UniProt error %d: %s", resp.StatusCode, string(body))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read UniProt response: %w", err)
	}
	if c.cache != nil {
		c.cache.Put(url, body)
	}
	return body, nil
}
