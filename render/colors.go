package render

// Palette for the sandbox and debug overlays (Tokyo Night)
var (
	RgbBackground = RGB{26, 27, 38}
	RgbForeground = RGB{192, 202, 245}

	RgbLocator   = RGB{122, 162, 247} // Blue
	RgbOverlap   = RGB{158, 206, 106} // Green
	RgbSolid     = RGB{224, 175, 104} // Orange
	RgbCollision = RGB{247, 118, 142} // Red

	RgbChunkGrid = RGB{59, 66, 97} // Dim gray-blue for chunk boundaries
	RgbStatusBar = RGB{255, 255, 255}
)
