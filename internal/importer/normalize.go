package importer

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"tyrehub/catalog/internal/common"
	"tyrehub/catalog/internal/logging"
	"tyrehub/catalog/internal/models/feed"

	"gorm.io/datatypes"
)

// ErrIncomplete marks a record that lacks a required natural-key field.
var ErrIncomplete = errors.New("incomplete record")

var tagPrefix = regexp.MustCompile(`(?i)^anvelope\s+`)

// Item is a validated feed record ready to be written.
type Item struct {
	Index int

	Brand     string
	Model     string
	Size      string
	WidthMM   int
	HeightPct int
	RimDiamIn float64
	Season    string

	TyreType    string
	DepthMM     *float64
	DepthBucket *int
	DOT         string
	DotYear     *int
	LoadIndex   *int
	SpeedIndex  *string
	Destination *string

	SKU     string
	Price   float64
	Stock   int
	Quality *string

	Title string
	Tags  []string
	Copy  datatypes.JSON
	Raw   json.RawMessage
}

// Slug is the product's natural key:
// brand model size type [bucket "mm"] [DOT].
func (it Item) Slug() string {
	bucket := ""
	if it.DepthBucket != nil {
		bucket = strconv.Itoa(*it.DepthBucket) + "mm"
	}
	return common.SlugifyParts(it.Brand, it.Model, it.Size, strings.ToLower(it.TyreType), bucket, it.DOT)
}

// Normalizer turns feed records into Items.
type Normalizer struct {
	classifier *Classifier
	windowMM   float64
}

func NewNormalizer(c *Classifier, windowMM float64) *Normalizer {
	return &Normalizer{classifier: c, windowMM: windowMM}
}

func missing(field string) error {
	return fmt.Errorf("%w: %s", ErrIncomplete, field)
}

// Normalize validates r. A record without brand, model, width, height, rim
// diameter or SKU returns an error wrapping ErrIncomplete.
func (n *Normalizer) Normalize(index int, r feed.Record) (Item, error) {
	it := Item{Index: index, Raw: r.Raw}

	if !r.Brand.Valid {
		return it, missing("Marca")
	}
	if !r.Model.Valid {
		return it, missing("Model")
	}
	width, ok := r.Width.Int()
	if !ok || width <= 0 {
		return it, missing("Latime")
	}
	height, ok := r.Height.Int()
	if !ok || height <= 0 {
		return it, missing("Inaltime")
	}
	if !r.RimDiameter.Valid || r.RimDiameter.Value <= 0 {
		return it, missing("Diametru")
	}
	if !r.SKU.Valid {
		return it, missing("SKU")
	}

	it.Brand = r.Brand.Value
	it.Model = r.Model.Value
	it.WidthMM = width
	it.HeightPct = height
	it.RimDiamIn = r.RimDiameter.Value
	it.Size = r.Size.Or(fmt.Sprintf("%d/%dR%s", width, height, formatRim(it.RimDiamIn)))
	it.Season = r.Season.Value

	it.TyreType = n.classifier.Classify(r.ProductType.Value)
	it.DepthMM = r.TreadDepth.PositiveFloat()
	it.DepthBucket = DepthBucket(it.TyreType, it.DepthMM, n.windowMM)
	it.DOT = r.DOT.Value
	if y, err := strconv.Atoi(r.DOT.Value); err == nil && y > 0 {
		it.DotYear = &y
	}
	it.LoadIndex = r.LoadIndex.PositiveInt()
	it.SpeedIndex = r.SpeedIndex.Ptr()
	it.Destination = r.Destination.Ptr()

	it.SKU = r.SKU.Value
	it.Price = r.ListPrice.OrZero()
	it.Stock = int(r.Stock.OrZero())
	it.Quality = r.Quality.Ptr()

	it.Title = r.Title.Or(r.TitleLower.Or(fmt.Sprintf("%s %s %s", it.Brand, it.Model, it.Size)))
	it.Tags = splitTags(r.Tags.Value)
	it.Copy = buildCopy(index, it.SKU, r)
	return it, nil
}

func formatRim(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// splitTags splits the comma separated label list, dropping the category
// prefix and repeated labels.
func splitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	var tags []string
	seen := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		v := strings.TrimSpace(tagPrefix.ReplaceAllString(strings.TrimSpace(part), ""))
		if v == "" {
			continue
		}
		slug := common.Slugify(v)
		if slug == "" || seen[slug] {
			continue
		}
		seen[slug] = true
		tags = append(tags, v)
	}
	return tags
}

// buildCopy collects the JSON-encoded description fragments. A fragment that
// is not valid JSON is dropped with a warning; the record itself is kept.
func buildCopy(index int, sku string, r feed.Record) datatypes.JSON {
	fragments := map[string]feed.Text{
		"description":     r.Description,
		"characteristics": r.Characteristic,
	}

	content := make(map[string]json.RawMessage, len(fragments))
	for key, text := range fragments {
		if !text.Valid {
			continue
		}
		if !json.Valid([]byte(text.Value)) {
			logging.Warn("Skipping malformed copy fragment",
				"index", index,
				"sku", sku,
				"field", key,
			)
			continue
		}
		content[key] = json.RawMessage(text.Value)
	}

	if len(content) == 0 {
		return nil
	}
	data, err := json.Marshal(content)
	if err != nil {
		return nil
	}
	return datatypes.JSON(data)
}
