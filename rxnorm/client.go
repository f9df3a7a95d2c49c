// Package rxnorm is a client for the NLM RxNav REST API: concept lookup,
// drug-drug interactions and RxClass memberships.
package rxnorm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/juju/ratelimit"

	"github.com/eczane/pharmacy-api/config"
	"github.com/eczane/pharmacy-api/upstream"
)

var (
	// ErrNotFound means RxNorm knows no concept for the name or id
	ErrNotFound = errors.New("rxnorm: not found")
	// ErrInsufficientDrugs means fewer than two names resolved to a concept
	ErrInsufficientDrugs = errors.New("rxnorm: at least two resolvable drugs required")
)

const Upstream = "rxnorm"

type Client struct {
	baseURL            string
	fetch              *upstream.Fetcher
	timeout            time.Duration
	interactionTimeout time.Duration
}

// New builds a client from cfg sharing the outbound bucket
func New(cfg *config.Config, bucket *ratelimit.Bucket) *Client {
	return NewClient(cfg.RxNormBaseURL, nil, bucket, cfg.RxNormTimeout, cfg.RxNormInteractionTimeout)
}

func NewClient(baseURL string, httpClient *http.Client, bucket *ratelimit.Bucket, timeout, interactionTimeout time.Duration) *Client {
	return &Client{
		baseURL:            strings.TrimSuffix(baseURL, "/"),
		fetch:              upstream.NewFetcher(Upstream, httpClient, bucket),
		timeout:            timeout,
		interactionTimeout: interactionTimeout,
	}
}

// Concept is a resolved RxNorm identifier
type Concept struct {
	RxCUI       string `json:"rxcui"`
	Name        string `json:"name"`
	Approximate bool   `json:"approximate,omitempty"`
}

type Candidate struct {
	RxCUI string `json:"rxcui"`
	Name  string `json:"name"`
	Score string `json:"score"`
}

type Interaction struct {
	Severity    string `json:"severity"`
	Description string `json:"description"`
	Drug1       string `json:"drug1"`
	Drug2       string `json:"drug2"`
	Source      string `json:"source"`
}

// InteractionList is the answer of CheckByNames
type InteractionList struct {
	Interactions []Interaction `json:"interactions"`
	CheckedDrugs []string      `json:"checkedDrugs"`
	NotFound     []string      `json:"notFound"`
	Source       string        `json:"source"`
}

type DrugClass struct {
	ClassID   string `json:"classId"`
	ClassName string `json:"className"`
	ClassType string `json:"classType"`
}

type Properties struct {
	RxCUI    string `json:"rxcui"`
	Name     string `json:"name"`
	Synonym  string `json:"synonym"`
	TTY      string `json:"tty"`
	Language string `json:"language"`
}

func (c *Client) endpoint(path string, q url.Values) string {
	u := c.baseURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

func (c *Client) getJSON(ctx context.Context, u string, timeout time.Duration, dst any) error {
	err := c.fetch.GetJSON(ctx, u, timeout, dst)
	if errors.Is(err, upstream.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// RxCUI resolves name exactly and falls back to the best approximate match
func (c *Client) RxCUI(ctx context.Context, name string) (Concept, error) {
	var resp struct {
		IDGroup struct {
			Name     string   `json:"name"`
			RxNormID []string `json:"rxnormId"`
		} `json:"idGroup"`
	}
	err := c.getJSON(ctx, c.endpoint("/rxcui.json", url.Values{"name": {name}}), c.timeout, &resp)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return Concept{}, fmt.Errorf("rxcui lookup %q: %w", name, err)
	}
	if err == nil && len(resp.IDGroup.RxNormID) > 0 {
		n := resp.IDGroup.Name
		if n == "" {
			n = name
		}
		return Concept{RxCUI: resp.IDGroup.RxNormID[0], Name: n}, nil
	}

	matches, err := c.ApproximateMatches(ctx, name)
	if err != nil {
		return Concept{}, err
	}
	return Concept{RxCUI: matches[0].RxCUI, Name: matches[0].Name, Approximate: true}, nil
}

// ApproximateMatches returns up to five fuzzy candidates for name
func (c *Client) ApproximateMatches(ctx context.Context, name string) ([]Candidate, error) {
	var resp struct {
		ApproximateGroup struct {
			Candidate []Candidate `json:"candidate"`
		} `json:"approximateGroup"`
	}
	q := url.Values{"term": {name}, "maxEntries": {"5"}}
	if err := c.getJSON(ctx, c.endpoint("/approximateTerm.json", q), c.timeout, &resp); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("approximate match %q: %w", name, err)
	}

	candidates := resp.ApproximateGroup.Candidate
	if len(candidates) == 0 {
		return nil, ErrNotFound
	}
	for i := range candidates {
		if candidates[i].Name == "" {
			candidates[i].Name = name
		}
	}
	return candidates, nil
}

// Interactions lists the interaction pairs among rxcuis. A 404 or an empty
// group list both mean no known interactions.
func (c *Client) Interactions(ctx context.Context, rxcuis []string) ([]Interaction, error) {
	if len(rxcuis) < 2 {
		return nil, ErrInsufficientDrugs
	}

	var resp struct {
		FullInteractionTypeGroup []struct {
			SourceName          string `json:"sourceName"`
			FullInteractionType []struct {
				InteractionPair []struct {
					Severity           string `json:"severity"`
					Description        string `json:"description"`
					InteractionConcept []struct {
						MinConceptItem struct {
							Name string `json:"name"`
						} `json:"minConceptItem"`
					} `json:"interactionConcept"`
				} `json:"interactionPair"`
			} `json:"fullInteractionType"`
		} `json:"fullInteractionTypeGroup"`
	}

	// rxcuis are numeric so "+" is joined unescaped
	u := c.baseURL + "/interaction/list.json?rxcuis=" + strings.Join(rxcuis, "+")
	if err := c.getJSON(ctx, u, c.interactionTimeout, &resp); err != nil {
		if errors.Is(err, ErrNotFound) {
			return []Interaction{}, nil
		}
		return nil, fmt.Errorf("interaction list: %w", err)
	}

	out := []Interaction{}
	for _, group := range resp.FullInteractionTypeGroup {
		for _, it := range group.FullInteractionType {
			for _, pair := range it.InteractionPair {
				in := Interaction{
					Severity:    pair.Severity,
					Description: pair.Description,
					Source:      group.SourceName,
				}
				if in.Severity == "" {
					in.Severity = "N/A"
				}
				if len(pair.InteractionConcept) > 0 {
					in.Drug1 = pair.InteractionConcept[0].MinConceptItem.Name
				}
				if len(pair.InteractionConcept) > 1 {
					in.Drug2 = pair.InteractionConcept[1].MinConceptItem.Name
				}
				out = append(out, in)
			}
		}
	}
	return out, nil
}

// CheckByNames resolves every name concurrently then queries interactions
// among those found. Names that do not resolve are reported in NotFound.
func (c *Client) CheckByNames(ctx context.Context, names []string) (InteractionList, error) {
	concepts := make([]Concept, len(names))
	errs := make([]error, len(names))

	var wg sync.WaitGroup
	for i, name := range names {
		wg.Add(1)
		go func(i int, name string) {
			defer wg.Done()
			concepts[i], errs[i] = c.RxCUI(ctx, name)
		}(i, name)
	}
	wg.Wait()

	list := InteractionList{Source: "RxNorm Interaction API", CheckedDrugs: []string{}, NotFound: []string{}}
	var rxcuis []string
	var lastErr error
	for i, name := range names {
		if errs[i] != nil {
			if !errors.Is(errs[i], ErrNotFound) {
				lastErr = errs[i]
			}
			list.NotFound = append(list.NotFound, name)
			continue
		}
		rxcuis = append(rxcuis, concepts[i].RxCUI)
		list.CheckedDrugs = append(list.CheckedDrugs, name)
	}

	if len(rxcuis) < 2 {
		if lastErr != nil {
			return list, lastErr
		}
		return list, fmt.Errorf("%w (not found: %s)", ErrInsufficientDrugs, strings.Join(list.NotFound, ", "))
	}

	interactions, err := c.Interactions(ctx, rxcuis)
	if err != nil {
		return list, err
	}
	list.Interactions = interactions
	return list, nil
}

// DrugClasses returns the RxClass memberships of rxcui, one per class name
func (c *Client) DrugClasses(ctx context.Context, rxcui string) ([]DrugClass, error) {
	var resp struct {
		RxclassDrugInfoList struct {
			RxclassDrugInfo []struct {
				Item DrugClass `json:"rxclassMinConceptItem"`
			} `json:"rxclassDrugInfo"`
		} `json:"rxclassDrugInfoList"`
	}
	if err := c.getJSON(ctx, c.endpoint("/rxclass/class/byRxcui.json", url.Values{"rxcui": {rxcui}}), c.timeout, &resp); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("drug classes of %s: %w", rxcui, err)
	}

	info := resp.RxclassDrugInfoList.RxclassDrugInfo
	if len(info) == 0 {
		return nil, ErrNotFound
	}

	seen := make(map[string]int, len(info))
	classes := make([]DrugClass, 0, len(info))
	for _, ci := range info {
		// later duplicates overwrite earlier ones in place
		if idx, ok := seen[ci.Item.ClassName]; ok {
			classes[idx] = ci.Item
			continue
		}
		seen[ci.Item.ClassName] = len(classes)
		classes = append(classes, ci.Item)
	}
	return classes, nil
}

func (c *Client) Properties(ctx context.Context, rxcui string) (Properties, error) {
	var resp struct {
		Properties *Properties `json:"properties"`
	}
	if err := c.getJSON(ctx, c.endpoint("/rxcui/"+url.PathEscape(rxcui)+"/properties.json", nil), c.timeout, &resp); err != nil {
		if errors.Is(err, ErrNotFound) {
			return Properties{}, ErrNotFound
		}
		return Properties{}, fmt.Errorf("properties of %s: %w", rxcui, err)
	}
	if resp.Properties == nil {
		return Properties{}, ErrNotFound
	}
	return *resp.Properties, nil
}

// Ping probes the API version endpoint
func (c *Client) Ping(ctx context.Context) error {
	return c.fetch.Probe(ctx, c.endpoint("/version.json", nil), c.timeout)
}

// MapSeverity converts an RxNorm severity label to the local vocabulary
func MapSeverity(s string) string {
	switch strings.ToLower(s) {
	case "high":
		return "serious"
	case "moderate":
		return "moderate"
	case "low":
		return "minor"
	default:
		return "moderate"
	}
}
