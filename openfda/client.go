// Package openfda queries the FDA open data API for drug labels, adverse
// event counts and enforcement reports.
package openfda

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/juju/ratelimit"

	"github.com/eczane/pharmacy-api/config"
	"github.com/eczane/pharmacy-api/upstream"
)

// ErrNotFound means OpenFDA has no document matching the query
var ErrNotFound = errors.New("openfda: not found")

const (
	Upstream = "openfda"

	unknown = "Bilinmiyor"
	noInfo  = "Bilgi yok"

	labelLimit       = 5
	eventLimit       = 20
	topEvents        = 15
	recallLimit      = 10
	shortText        = 500
	longText         = 1000
	recallTextLength = 200
)

type Client struct {
	baseURL string
	fetch   *upstream.Fetcher
	timeout time.Duration
}

func New(cfg *config.Config, bucket *ratelimit.Bucket) *Client {
	return NewClient(cfg.OpenFDABaseURL, nil, bucket, cfg.OpenFDATimeout)
}

func NewClient(baseURL string, httpClient *http.Client, bucket *ratelimit.Bucket, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		fetch:   upstream.NewFetcher(Upstream, httpClient, bucket),
		timeout: timeout,
	}
}

// Label is the trimmed view of one drug label. Empty text fields mean the
// section is absent from the label.
type Label struct {
	BrandName               string `json:"brandName"`
	GenericName             string `json:"genericName"`
	Manufacturer            string `json:"manufacturer"`
	Route                   string `json:"route"`
	Warnings                string `json:"warnings,omitempty"`
	Contraindications       string `json:"contraindications,omitempty"`
	DrugInteractions        string `json:"drugInteractions,omitempty"`
	Pregnancy               string `json:"pregnancy,omitempty"`
	NursingMothers          string `json:"nursingMothers,omitempty"`
	PediatricUse            string `json:"pediatricUse,omitempty"`
	GeriatricUse            string `json:"geriatricUse,omitempty"`
	AdverseReactions        string `json:"adverseReactions,omitempty"`
	DosageAndAdministration string `json:"dosageAndAdministration,omitempty"`
}

type InteractionInfo struct {
	DrugName          string `json:"drugName"`
	BrandName         string `json:"brandName"`
	InteractionText   string `json:"interactionText"`
	Warnings          string `json:"warnings,omitempty"`
	Contraindications string `json:"contraindications,omitempty"`
	Source            string `json:"source"`
}

type PregnancyInfo struct {
	DrugName       string `json:"drugName"`
	BrandName      string `json:"brandName"`
	Pregnancy      string `json:"pregnancy"`
	NursingMothers string `json:"nursingMothers"`
	PediatricUse   string `json:"pediatricUse"`
	GeriatricUse   string `json:"geriatricUse"`
	Source         string `json:"source"`
}

type AdverseEvent struct {
	Reaction string `json:"reaction"`
	Count    int    `json:"count"`
}

type AdverseEvents struct {
	DrugName     string         `json:"drugName"`
	Events       []AdverseEvent `json:"adverseEvents"`
	TotalReports int            `json:"totalReports"`
	Source       string         `json:"source"`
}

type Recall struct {
	RecallNumber       string `json:"recallNumber"`
	Status             string `json:"status"`
	Classification     string `json:"classification"`
	Reason             string `json:"reason"`
	InitiationDate     string `json:"initiationDate"`
	ProductDescription string `json:"productDescription"`
}

func (c *Client) getJSON(ctx context.Context, path string, q url.Values, dst any) error {
	err := c.fetch.GetJSON(ctx, c.baseURL+path+"?"+q.Encode(), c.timeout, dst)
	if errors.Is(err, upstream.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

type rawLabel struct {
	OpenFDA struct {
		BrandName        []string `json:"brand_name"`
		GenericName      []string `json:"generic_name"`
		ManufacturerName []string `json:"manufacturer_name"`
		Route            []string `json:"route"`
	} `json:"openfda"`
	Warnings                []string `json:"warnings"`
	Contraindications       []string `json:"contraindications"`
	DrugInteractions        []string `json:"drug_interactions"`
	Pregnancy               []string `json:"pregnancy"`
	NursingMothers          []string `json:"nursing_mothers"`
	PediatricUse            []string `json:"pediatric_use"`
	GeriatricUse            []string `json:"geriatric_use"`
	AdverseReactions        []string `json:"adverse_reactions"`
	DosageAndAdministration []string `json:"dosage_and_administration"`
}

func first(values []string, fallback string) string {
	if len(values) == 0 || values[0] == "" {
		return fallback
	}
	return values[0]
}

func section(values []string, n int) string {
	return upstream.Truncate(first(values, ""), n)
}

func (r rawLabel) label() Label {
	return Label{
		BrandName:               first(r.OpenFDA.BrandName, unknown),
		GenericName:             first(r.OpenFDA.GenericName, unknown),
		Manufacturer:            first(r.OpenFDA.ManufacturerName, unknown),
		Route:                   first(r.OpenFDA.Route, unknown),
		Warnings:                section(r.Warnings, shortText),
		Contraindications:       section(r.Contraindications, shortText),
		DrugInteractions:        section(r.DrugInteractions, longText),
		Pregnancy:               section(r.Pregnancy, shortText),
		NursingMothers:          section(r.NursingMothers, shortText),
		PediatricUse:            section(r.PediatricUse, shortText),
		GeriatricUse:            section(r.GeriatricUse, shortText),
		AdverseReactions:        section(r.AdverseReactions, longText),
		DosageAndAdministration: section(r.DosageAndAdministration, shortText),
	}
}

// SearchLabel returns up to five labels whose brand or generic name is name
func (c *Client) SearchLabel(ctx context.Context, name string) ([]Label, error) {
	q := url.Values{
		"search": {fmt.Sprintf(`openfda.brand_name:"%s" openfda.generic_name:"%s"`, name, name)},
		"limit":  {fmt.Sprint(labelLimit)},
	}
	var resp struct {
		Results []rawLabel `json:"results"`
	}
	if err := c.getJSON(ctx, "/drug/label.json", q, &resp); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("label search %q: %w", name, err)
	}
	if len(resp.Results) == 0 {
		return nil, ErrNotFound
	}

	labels := make([]Label, len(resp.Results))
	for i, r := range resp.Results {
		labels[i] = r.label()
	}
	return labels, nil
}

// InteractionText returns the drug interactions section of the first label
func (c *Client) InteractionText(ctx context.Context, name string) (InteractionInfo, error) {
	labels, err := c.SearchLabel(ctx, name)
	if err != nil {
		return InteractionInfo{}, err
	}
	l := labels[0]
	if l.DrugInteractions == "" {
		return InteractionInfo{DrugName: l.GenericName}, ErrNotFound
	}
	return InteractionInfo{
		DrugName:          l.GenericName,
		BrandName:         l.BrandName,
		InteractionText:   l.DrugInteractions,
		Warnings:          l.Warnings,
		Contraindications: l.Contraindications,
		Source:            "FDA Drug Label",
	}, nil
}

// PregnancyInfo returns the pregnancy related sections of the first label
func (c *Client) PregnancyInfo(ctx context.Context, name string) (PregnancyInfo, error) {
	labels, err := c.SearchLabel(ctx, name)
	if err != nil {
		return PregnancyInfo{}, err
	}
	l := labels[0]
	return PregnancyInfo{
		DrugName:       l.GenericName,
		BrandName:      l.BrandName,
		Pregnancy:      cmp.Or(l.Pregnancy, noInfo),
		NursingMothers: cmp.Or(l.NursingMothers, noInfo),
		PediatricUse:   cmp.Or(l.PediatricUse, noInfo),
		GeriatricUse:   cmp.Or(l.GeriatricUse, noInfo),
		Source:         "FDA Drug Label",
	}, nil
}

// AdverseEvents counts FAERS reactions reported for name, most frequent first
func (c *Client) AdverseEvents(ctx context.Context, name string) (AdverseEvents, error) {
	q := url.Values{
		"search": {fmt.Sprintf(`patient.drug.medicinalproduct:"%s"`, name)},
		"count":  {"patient.reaction.reactionmeddrapt.exact"},
		"limit":  {fmt.Sprint(eventLimit)},
	}
	var resp struct {
		Results []struct {
			Term  string `json:"term"`
			Count int    `json:"count"`
		} `json:"results"`
	}
	if err := c.getJSON(ctx, "/drug/event.json", q, &resp); err != nil {
		if errors.Is(err, ErrNotFound) {
			return AdverseEvents{}, ErrNotFound
		}
		return AdverseEvents{}, fmt.Errorf("adverse events %q: %w", name, err)
	}
	if len(resp.Results) == 0 {
		return AdverseEvents{}, ErrNotFound
	}

	events := make([]AdverseEvent, len(resp.Results))
	total := 0
	for i, r := range resp.Results {
		events[i] = AdverseEvent{Reaction: r.Term, Count: r.Count}
		total += r.Count
	}
	slices.SortStableFunc(events, func(a, b AdverseEvent) int { return cmp.Compare(b.Count, a.Count) })
	if len(events) > topEvents {
		events = events[:topEvents]
	}

	return AdverseEvents{
		DrugName:     name,
		Events:       events,
		TotalReports: total,
		Source:       "FDA Adverse Event Reporting System (FAERS)",
	}, nil
}

// Recalls lists enforcement reports mentioning name
func (c *Client) Recalls(ctx context.Context, name string) ([]Recall, error) {
	q := url.Values{
		"search": {fmt.Sprintf(`product_description:"%s"`, name)},
		"limit":  {fmt.Sprint(recallLimit)},
	}
	var resp struct {
		Results []struct {
			RecallNumber         string `json:"recall_number"`
			Status               string `json:"status"`
			Classification       string `json:"classification"`
			ReasonForRecall      string `json:"reason_for_recall"`
			RecallInitiationDate string `json:"recall_initiation_date"`
			ProductDescription   string `json:"product_description"`
		} `json:"results"`
	}
	if err := c.getJSON(ctx, "/drug/enforcement.json", q, &resp); err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("recalls %q: %w", name, err)
	}
	if len(resp.Results) == 0 {
		return nil, ErrNotFound
	}

	recalls := make([]Recall, len(resp.Results))
	for i, r := range resp.Results {
		recalls[i] = Recall{
			RecallNumber:       r.RecallNumber,
			Status:             r.Status,
			Classification:     r.Classification,
			Reason:             r.ReasonForRecall,
			InitiationDate:     r.RecallInitiationDate,
			ProductDescription: upstream.Truncate(r.ProductDescription, recallTextLength),
		}
	}
	return recalls, nil
}

// Ping issues a minimal label query
func (c *Client) Ping(ctx context.Context) error {
	return c.fetch.Probe(ctx, c.baseURL+"/drug/label.json?limit=1", c.timeout)
}
