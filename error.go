package rastercrop

import (
	"errors"
	"fmt"
)

var (
	ErrGdalDriverOpen        = errors.New("gdal driver open err")
	ErrGdalDriverCreate      = errors.New("gdal driver create err")
	ErrUnknownDriver         = errors.New("invalid driver code")
	ErrUnsupportedCapability = errors.New("driver doesn't handle raster data")
	ErrInvalidPath           = errors.New("input file is not under input path")
	ErrEmptyIntersection     = errors.New("input shapes do not overlap raster")
	ErrRotatedRaster         = errors.New("rotated raster transform is not supported")
	ErrNoGeometry            = errors.New("no geometry to mask with")
	ErrLayerNotFound         = errors.New("vector layer not found")
	ErrMissingColumn         = errors.New("column missing in vector properties")
	ErrUnknownOperator       = errors.New("unknown comparison operator")
	ErrEmptyRaster           = errors.New("raster has no valid pixel")
	ErrWrongBand             = errors.New("raster band out of range")
	ErrSizeMismatch          = errors.New("array size doesn't match profile")
	ErrInvalidCRS            = errors.New("invalid coordinate reference system")
)

// 驱动校验失败时返回，包含驱动代码和格式列表的参考地址
type DriverError struct {
	Code string
	Hint string
	Err  error
}

func (e *DriverError) Error() string {
	return fmt.Sprintf("%v: %q. Checks the code of the raster formats from: %s", e.Err, e.Code, e.Hint)
}

func (e *DriverError) Unwrap() error {
	return e.Err
}
