package platform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"

	"github.com/dwtools/dwcli/internal/api"
	"github.com/dwtools/dwcli/internal/constants"
	"github.com/dwtools/dwcli/internal/logging"
)

// Service exposes the platform's document-management resources through an
// authenticated API client.
type Service struct {
	client   *api.Client
	idField  string
	pageSize int
}

// NewService creates a Service. idField names the field carrying the
// document id in tabular listings; empty means the platform default.
func NewService(client *api.Client, idField string) *Service {
	if idField == "" {
		idField = constants.DefaultIDField
	}
	return &Service{
		client:   client,
		idField:  idField,
		pageSize: constants.DefaultPageSize,
	}
}

// Organizations lists the organizations visible to the session
func (s *Service) Organizations(ctx context.Context) ([]Organization, error) {
	body, err := s.client.Get(ctx, constants.PlatformPrefix+"/Organizations")
	if err != nil {
		return nil, err
	}

	var result organizationsResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse organizations response: %w", err)
	}
	return result.Organization, nil
}

// Cabinets lists the file cabinets of one organization
func (s *Service) Cabinets(ctx context.Context, orgID string) ([]Cabinet, error) {
	path := constants.PlatformPrefix + "/FileCabinets?orgid=" + url.QueryEscape(orgID)
	body, err := s.client.Get(ctx, path)
	if err != nil {
		return nil, err
	}

	var result cabinetsResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse cabinets response: %w", err)
	}
	return result.FileCabinet, nil
}

// AllCabinets lists the cabinets of every visible organization
func (s *Service) AllCabinets(ctx context.Context) ([]Cabinet, error) {
	orgs, err := s.Organizations(ctx)
	if err != nil {
		return nil, err
	}

	var cabinets []Cabinet
	for _, org := range orgs {
		cs, err := s.Cabinets(ctx, org.ID)
		if err != nil {
			return nil, err
		}
		cabinets = append(cabinets, cs...)
	}
	return cabinets, nil
}

// FindCabinet resolves a cabinet by name. When more than one cabinet
// carries the name, the first match wins and a warning is emitted; an
// unknown name is an error.
func (s *Service) FindCabinet(ctx context.Context, name string) (*Cabinet, error) {
	cabinets, err := s.AllCabinets(ctx)
	if err != nil {
		return nil, err
	}

	var matches []Cabinet
	for _, c := range cabinets {
		if c.Name == name {
			matches = append(matches, c)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("no cabinet named %q found", name)
	case 1:
	default:
		logging.Warn("multiple cabinets match, using the first", logging.Fields{
			"name":    name,
			"matches": len(matches),
			"id":      matches[0].ID,
		})
	}

	cabinet := matches[0]
	return &cabinet, nil
}
