package shelters

import (
	"strings"

	"github.com/shelterstock/shelterstock/internal/shared"
)

func (s *Service) validate(input Input) (Shelter, error) {
	name := strings.TrimSpace(input.Name)
	address := strings.TrimSpace(input.Address)
	if name == "" {
		return Shelter{}, shared.Validationf("nome is required")
	}
	if address == "" {
		return Shelter{}, shared.Validationf("endereco is required")
	}
	return Shelter{Name: name, Address: address}, nil
}
