package importer

import "tyrehub/catalog/internal/models/gorm"

// offerPair keeps an offer and its tyre condition row together until the
// offer id is known.
type offerPair struct {
	offer gorm.Offer
	spec  gorm.OfferTyreSpec
}

type offerKey struct {
	sellerID  int64
	sku       string
	productID int64
}

// dedupOffers keeps one pair per (seller, sku, product). The last pair wins
// but takes the slot of the first occurrence.
func dedupOffers(pairs []offerPair) []offerPair {
	slot := make(map[offerKey]int, len(pairs))
	out := make([]offerPair, 0, len(pairs))
	for _, p := range pairs {
		k := offerKey{p.offer.SellerID, p.offer.SKUExternal, p.offer.ProductID}
		if i, ok := slot[k]; ok {
			out[i] = p
			continue
		}
		slot[k] = len(out)
		out = append(out, p)
	}
	return out
}

func dedupTags(links []gorm.ProductTag) []gorm.ProductTag {
	seen := make(map[gorm.ProductTag]struct{}, len(links))
	out := make([]gorm.ProductTag, 0, len(links))
	for _, l := range links {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	return out
}
