package plot

const (
	COLORBAR_LAST   = "last"
	COLORBAR_ALL    = "all"
	COLORBAR_GLOBAL = "global"

	DEFAULT_PALETTE   = "viridis"
	DEFAULT_CELL_SIZE = 240

	MARGIN         = 10
	PANEL_PADDING  = 4
	TITLE_SPACE    = 28
	SUBTITLE_SPACE = 20
	LABEL_PADDING  = 8

	BAR_GAP        = 6
	BAR_WIDTH      = 14
	BAR_SPACE      = 72 // 竖直色标及刻度文字占用的宽度
	GLOBAL_BAR_H   = 12
	GLOBAL_SPACE   = 44 // 水平全局色标及刻度文字占用的高度
	GLOBAL_BAR_PCT = 60 // 水平全局色标占图宽的百分比

	LOG_TAG = "Plot:"
)
