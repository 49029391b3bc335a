package rastercrop

const (
	DRIVER_FORMATS_URL = "https://gdal.org/drivers/raster/index.html"
	DRIVER_HELP_URL    = "https://gdal.org/"

	DCAP_RASTER     = "DCAP_RASTER"
	DMD_LONGNAME    = "DMD_LONGNAME"
	DMD_EXTENSION   = "DMD_EXTENSION"
	DMD_EXTENSIONS  = "DMD_EXTENSIONS"
	DMD_HELPTOPIC   = "DMD_HELPTOPIC"
	DMD_MIMETYPE    = "DMD_MIMETYPE"
	CAPABILITY_TRUE = "YES"

	MEM_VSI_PREFIX    = "/vsimem/"
	FILE_EXT_VRT      = ".vrt"
	LABEL_SEPARATOR   = "_"
	LABEL_DATE_LAYOUT = "2006-01-02" // 日期型标签的格式
	AREA_PRECISION    = 15
	MASK_BURN_VALUE   = 1
	DEFAULT_DIR_PERM  = 0o755

	LOG_TAG = "Toolbox:"
)

// GDAL环境变量默认值，已设置的不覆盖
var gdalEnvDefaults = [][2]string{
	{"GDAL_PAM_ENABLED", "NO"},
	{"GDAL_NETCDF_VERIFY_DIMS", "NO"},
	{"GDAL_MAX_DATASET_POOL_SIZE", "10"},
}
