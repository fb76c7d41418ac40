package page

import (
	"context"
	"errors"
	"time"

	"github.com/wulab/labsite/internal/model"
)

var errFetch = errors.New("fetch failed")

func testSite() *model.SiteConfig {
	return &model.SiteConfig{
		Profile: model.Profile{
			Name:        "Min Wu, Ph.D.",
			Title:       "Professor & Ph.D. Supervisor",
			Institution: "West China Hospital, Sichuan University",
			Email:       "wuminscu@scu.edu.cn",
		},
		ResearchDirs: []model.ResearchDirection{
			{ID: "m-imaging", Title: "Molecular Imaging", Description: "Multi-modality imaging.", Details: []string{"MRI/CT", "NIR-II", "PET/CT"}},
			{ID: "hydrogels", Title: "Theranostic Hydrogels", Description: "Injectable hydrogels.", Details: []string{"Recurrence", "Delivery"}},
		},
	}
}

// fakeLoader returns canned results, optionally after a delay or a gate.
type fakeLoader struct {
	site      *model.SiteConfig
	siteErr   error
	pubs      []model.Publication
	pubsErr   error
	siteDelay time.Duration
	siteGate  chan struct{}
}

func (f *fakeLoader) LoadSiteConfig(ctx context.Context) (*model.SiteConfig, error) {
	if f.siteGate != nil {
		select {
		case <-f.siteGate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.siteDelay > 0 {
		time.Sleep(f.siteDelay)
	}
	return f.site, f.siteErr
}

func (f *fakeLoader) LoadPublications(context.Context) ([]model.Publication, error) {
	return f.pubs, f.pubsErr
}
