package content

import (
	"fmt"

	"github.com/Kush-Singh-26/folio/builder/bibtex"
	"github.com/Kush-Singh-26/folio/builder/models"
)

// GetPublications parses the bibliography into year groups. A missing
// bibliography yields no groups.
func (s *Store) GetPublications() ([]models.PublicationGroup, error) {
	raw, err := s.readOptional(s.bibPath)
	if err != nil || raw == nil {
		return []models.PublicationGroup{}, err
	}
	groups, err := bibtex.ParseGrouped(string(raw))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.bibPath, err)
	}
	return groups, nil
}

// SelectedPublications returns up to limit selected entries in group order.
func SelectedPublications(groups []models.PublicationGroup, limit int) []models.Publication {
	var selected []models.Publication
	for _, g := range groups {
		for _, p := range g.Entries {
			if !p.Selected {
				continue
			}
			selected = append(selected, p)
			if limit > 0 && len(selected) == limit {
				return selected
			}
		}
	}
	return selected
}
