package extractor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const detailSourceURL = "https://www.lojaexemplo.com.br/produtos/vestido-midi-floral?utm_source=busca"

const detailHTML = `<!DOCTYPE html>
<html>
<head><title>Vestido Midi Floral</title></head>
<body>
	<div class="product-detail">
		<div class="product-gallery">
			<img src="//cdn.lojaexemplo.com.br/produtos/vestido-1.jpg"/>
			<img src="https://cdn.lojaexemplo.com.br/produtos/vestido-2.jpg"/>
			<img alt="placeholder"/>
		</div>
		<div class="accordion-item">
			<div class="accordion-title">Descrição</div>
			<div class="accordion-content">Vestido confortável para o dia a dia.</div>
		</div>
		<div class="accordion-item">
			<div class="accordion-title">Composição</div>
			<div class="accordion-content">100% Algodão</div>
		</div>
		<div class="accordion-item">
			<div class="accordion-title">Cuidados</div>
			<div class="accordion-content">Lavar à mão</div>
		</div>
		<div class="accordion-item">
			<div class="accordion-title"></div>
			<div class="accordion-content">valor sem nome</div>
		</div>
	</div>
	<script>
		var product = {"id": 7412001, "title": "Vestido Midi Floral", "description": "<p>Vestido <strong>midi</strong> com estampa floral.</p>", "type": "Vestidos > Midi", "variants": [{"id": 41001, "sku": "VMF-PRETO-38", "option1": "Preto", "option2": "38"}, {"id": 41002, "sku": "VMF-BRANCO-39", "option1": "Branco", "option2": "39"}]};
	</script>
</body>
</html>`

func TestDetail(t *testing.T) {
	e := New(testOrigin)

	product, skus, err := e.Detail(detailHTML, detailSourceURL)
	require.NoError(t, err)
	require.NotNil(t, product)

	assert.Equal(t, "7412001", product.Code)
	assert.Equal(t, "Vestido Midi Floral", product.Name)
	assert.Equal(t, "Vestido midi com estampa floral.", product.Description)
	assert.Equal(t, "Vestidos > Midi", product.CategoryTree)
	assert.NotEmpty(t, product.ID)
	assert.Equal(t, product.CreatedAt, product.UpdatedAt)

	require.Len(t, skus, 2)

	assert.Equal(t, "Vestido Midi Floral - Preto / 38", skus[0].Name)
	assert.Equal(t, "Vestido Midi Floral - Branco / 39", skus[1].Name)
	assert.Equal(t, "VMF-PRETO-38", skus[0].Code)
	assert.Equal(t, "VMF-BRANCO-39", skus[1].Code)

	for _, sku := range skus {
		assert.Equal(t, product.ID, sku.ProductID)
		assert.NotEmpty(t, sku.ID)
	}
}

func TestDetailVariantLinks(t *testing.T) {
	e := New(testOrigin)

	_, skus, err := e.Detail(detailHTML, detailSourceURL)
	require.NoError(t, err)
	require.Len(t, skus, 2)

	// The existing query string is replaced by the variant selector.
	assert.Equal(t, "https://www.lojaexemplo.com.br/produtos/vestido-midi-floral?variant=41001", skus[0].Link)
	assert.Equal(t, "https://www.lojaexemplo.com.br/produtos/vestido-midi-floral?variant=41002", skus[1].Link)
}

func TestDetailImagesSharedAndRewritten(t *testing.T) {
	e := New(testOrigin)

	_, skus, err := e.Detail(detailHTML, detailSourceURL)
	require.NoError(t, err)
	require.Len(t, skus, 2)

	expected := []string{
		"https://cdn.lojaexemplo.com.br/produtos/vestido-1.jpg",
		"https://cdn.lojaexemplo.com.br/produtos/vestido-2.jpg",
	}

	for _, sku := range skus {
		assert.Equal(t, expected, sku.Images)
	}
}

func TestDetailSpecifications(t *testing.T) {
	e := New(testOrigin)

	_, skus, err := e.Detail(detailHTML, detailSourceURL)
	require.NoError(t, err)
	require.Len(t, skus, 2)

	specs := skus[0].SkuSpecifications
	require.Len(t, specs, 4)

	assert.Equal(t, "Cor", specs[0].Name)
	assert.Equal(t, []string{"Preto"}, specs[0].Values)
	assert.Equal(t, "Tamanho", specs[1].Name)
	assert.Equal(t, []string{"38"}, specs[1].Values)

	assert.Equal(t, "Composição", specs[2].Name)
	assert.Equal(t, []string{"100% Algodão"}, specs[2].Values)
	assert.Equal(t, "Cuidados", specs[3].Name)
	assert.Equal(t, []string{"Lavar à mão"}, specs[3].Values)

	for _, spec := range specs {
		assert.NotEqual(t, "descrição", strings.ToLower(spec.Name))
		require.Len(t, spec.Values, 1)
	}
}

func TestDetailDescriptionAccordionAnyCase(t *testing.T) {
	e := New(testOrigin)

	html := `<html><body>
		<div class="accordion-item">
			<div class="accordion-title">DESCRIÇÃO</div>
			<div class="accordion-content">texto longo</div>
		</div>
		<div class="accordion-item">
			<div class="accordion-title">Medidas</div>
			<div class="accordion-content">Busto 92cm</div>
		</div>
		<script>var product = {"id": 5, "title": "Blusa Cropped", "description": "Blusa", "type": "Blusas", "variants": [{"id": 1, "sku": "BC-ROSA-P", "option1": "Rosa", "option2": "P"}]};</script>
	</body></html>`

	_, skus, err := e.Detail(html, "https://www.lojaexemplo.com.br/produtos/blusa-cropped")
	require.NoError(t, err)
	require.Len(t, skus, 1)

	specs := skus[0].SkuSpecifications
	require.Len(t, specs, 3)
	assert.Equal(t, "Cor", specs[0].Name)
	assert.Equal(t, "Tamanho", specs[1].Name)
	assert.Equal(t, "Medidas", specs[2].Name)
}

func TestDetailMissingProductData(t *testing.T) {
	e := New(testOrigin)

	tests := []struct {
		name string
		html string
	}{
		{
			name: "no scripts at all",
			html: `<html><body><div class="product-detail">vazio</div></body></html>`,
		},
		{
			name: "script without the assignment",
			html: `<html><body><script>var settings = {"theme": "dark"};</script></body></html>`,
		},
		{
			name: "assignment without object literal",
			html: `<html><body><script>var product = undefined;</script></body></html>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product, skus, err := e.Detail(tt.html, detailSourceURL)
			assert.ErrorIs(t, err, ErrProductDataNotFound)
			assert.Nil(t, product)
			assert.Nil(t, skus)
		})
	}
}

func TestDetailInvalidProductData(t *testing.T) {
	e := New(testOrigin)

	html := `<html><body><script>var product = {"id": 1, "title": };</script></body></html>`

	product, skus, err := e.Detail(html, detailSourceURL)
	assert.ErrorIs(t, err, ErrProductDataInvalid)
	assert.Nil(t, product)
	assert.Nil(t, skus)
}

func TestDetailWithoutVariants(t *testing.T) {
	e := New(testOrigin)

	tests := []struct {
		name string
		html string
	}{
		{
			name: "variant list absent",
			html: `<html><body><script>var product = {"id": 99, "title": "Bolsa Tote", "description": "Bolsa", "type": "Bolsas"};</script></body></html>`,
		},
		{
			name: "variant list not a sequence",
			html: `<html><body><script>var product = {"id": 99, "title": "Bolsa Tote", "description": "Bolsa", "type": "Bolsas", "variants": "nenhuma"};</script></body></html>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			product, skus, err := e.Detail(tt.html, detailSourceURL)
			require.NoError(t, err)
			require.NotNil(t, product)
			assert.Equal(t, "99", product.Code)
			assert.Empty(t, skus)
		})
	}
}

func TestDetailIdsDifferAcrossRuns(t *testing.T) {
	e := New(testOrigin)

	first, firstSkus, err := e.Detail(detailHTML, detailSourceURL)
	require.NoError(t, err)

	second, secondSkus, err := e.Detail(detailHTML, detailSourceURL)
	require.NoError(t, err)

	assert.Equal(t, first.Code, second.Code)
	assert.NotEqual(t, first.ID, second.ID)

	require.Len(t, firstSkus, 2)
	require.Len(t, secondSkus, 2)
	assert.NotEqual(t, firstSkus[0].ID, secondSkus[0].ID)
}
