package rastercrop

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/wgdzlh/rastercrop/log"

	"github.com/airbusgeo/godal"
	"github.com/google/uuid"
	"github.com/lukeroth/gdal"
	"go.uber.org/zap"
)

type Toolbox struct {
	tmpDir string
	logTag string
}

// 由GDAL库C语言创建的对象，需要手动调用Close回收
type closable interface {
	Close()
}

var gdalOnce sync.Once

// InitGdal 设置GDAL环境变量默认值（已设置的不覆盖），并注册全部驱动。重复调用无副作用
func InitGdal() {
	gdalOnce.Do(func() {
		for _, kv := range gdalEnvDefaults {
			setDefaultEnv(kv[0], kv[1])
		}
		godal.RegisterAll()
	})
}

func setDefaultEnv(key, val string) {
	if _, ok := os.LookupEnv(key); !ok {
		os.Setenv(key, val)
	}
}

// 初始化工具箱，tmpDir为可选的临时目录路径（未提供的话使用GDAL内存文件系统）
func NewToolbox(tmpDir ...string) *Toolbox {
	InitGdal()
	g := &Toolbox{
		logTag: LOG_TAG,
	}
	if len(tmpDir) > 0 && tmpDir[0] != "" {
		g.tmpDir = tmpDir[0]
	}
	return g
}

// 临时数据集路径
func (g *Toolbox) scratchPath(ext string) string {
	name := uuid.NewString() + ext
	if g.tmpDir == "" {
		return MEM_VSI_PREFIX + name
	}
	return filepath.Join(g.tmpDir, name)
}

func (g *Toolbox) openRaster(path string) (ds *godal.Dataset, err error) {
	if ds, err = godal.Open(path, godal.RasterOnly()); err != nil {
		log.Error(g.logTag+"open raster failed", zap.String("raster", path), zap.Error(err))
		err = fmt.Errorf("%w: %s: %v", ErrGdalDriverOpen, path, err)
	}
	return
}

// 识别能打开该文件的驱动代码
func driverOf(path string) string {
	return gdal.IdentifyDriver(path, nil).ShortName()
}

// 读取栅格元数据
func (g *Toolbox) profileOf(ds *godal.Dataset) (prof Profile, err error) {
	st := ds.Structure()
	prof = Profile{
		Width:    st.SizeX,
		Height:   st.SizeY,
		Count:    st.NBands,
		DataType: st.DataType,
		CRS:      ds.Projection(),
	}
	if prof.Transform, err = ds.GeoTransform(); err != nil {
		// 无地理参考的栅格按GDAL默认的单位变换处理
		prof.Transform = [6]float64{0, 1, 0, 0, 0, 1}
		err = nil
	}
	if bands := ds.Bands(); len(bands) > 0 {
		if nd, ok := bands[0].NoData(); ok {
			prof.NoData = &nd
		}
	}
	return
}

func (g *Toolbox) parseWKB(wkb GdalGeo, sr *godal.SpatialRef) (ret *godal.Geometry, err error) {
	if ret, err = godal.NewGeometryFromWKB(wkb, sr); err != nil {
		log.Error(g.logTag+"parse wkb failed", zap.Error(err))
	}
	return
}

func closeAll[T closable](gc []T) {
	for _, v := range gc {
		v.Close()
	}
}
