package mapper

import (
	"github.com/mrops-br/product-catalog-api/internal/app/dto"
	"github.com/mrops-br/product-catalog-api/internal/domain"
)

// ProductMapper translates between the product entity and its DTOs
type ProductMapper interface {
	ToEntity(d *dto.ProductDto) *domain.Product
	ToInfoDto(p *domain.Product) *dto.InfoProductDto
	ToInfoDtoList(products []*domain.Product) []*dto.InfoProductDto
	Merge(p *domain.Product, d *dto.ProductDto) *domain.Product
}

type productMapper struct{}

// New returns the stateless product mapper
func New() ProductMapper {
	return productMapper{}
}

// ToEntity builds a new product with no identifier and no creation time
func (productMapper) ToEntity(d *dto.ProductDto) *domain.Product {
	if d == nil {
		return nil
	}
	return &domain.Product{
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
	}
}

// ToInfoDto converts a domain Product to InfoProductDto
func (productMapper) ToInfoDto(p *domain.Product) *dto.InfoProductDto {
	if p == nil {
		return nil
	}
	return &dto.InfoProductDto{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
	}
}

// ToInfoDtoList converts a list of domain Products, never returning nil
func (m productMapper) ToInfoDtoList(products []*domain.Product) []*dto.InfoProductDto {
	infos := make([]*dto.InfoProductDto, 0, len(products))
	for _, p := range products {
		if p == nil {
			continue
		}
		infos = append(infos, m.ToInfoDto(p))
	}
	return infos
}

// Merge overwrites name, description and price in place. ID and CreatedAt
// are left untouched.
func (productMapper) Merge(p *domain.Product, d *dto.ProductDto) *domain.Product {
	if p == nil || d == nil {
		return p
	}
	p.Name = d.Name
	p.Description = d.Description
	p.Price = d.Price
	return p
}
