package constants

type (
	APIStatus   string
	CachePrefix string
)

const (
	APIStatusOk    APIStatus = "ok"
	APIStatusError APIStatus = "error"

	CachePrefixLookupDimensions CachePrefix = "LOOKUP_DIMENSIONS"
	CachePrefixLookupSeasons    CachePrefix = "LOOKUP_SEASONS"
	CachePrefixLookupBrands     CachePrefix = "LOOKUP_BRANDS"
)

// LookupCacheKeys are dropped after every import run.
var LookupCacheKeys = []CachePrefix{
	CachePrefixLookupDimensions,
	CachePrefixLookupSeasons,
	CachePrefixLookupBrands,
}

// Runtime settings stored in sys_setting.
const (
	SettingDepthWindowMM = "sh_depth_window_mm"
	DefaultDepthWindowMM = "2"
)

const (
	TyreTypeNew     = "NEW"
	TyreTypeSH      = "SH"
	TyreTypeEco     = "ECO"
	TyreTypeRemould = "REMOULD"
	TyreTypeRetread = "RETREAD"
)

// Catalogue paging.
const (
	DefaultPage  = 1
	DefaultLimit = 24
	MaxLimit     = 100
)
