package plot

import "errors"

var (
	ErrUnknownColorbar = errors.New("colorbar reference must be last, all or global")
	ErrUnknownPalette  = errors.New("unknown palette")
	ErrGridTooSmall    = errors.New("more rasters than grid cells")
)
