package options

type RippleOptions struct {
	Help        *bool
	Mode        *string // "interactive" or "record"
	Width       *int
	Height      *int
	TexturePath *string // Background image sampled by the display pass
	VFlip       *bool   // Store the background bottom row first
	Duration    *float64
	FPS         *int
	OutputFile  *string
	Codec       *string // "h264" or "hevc"
	FFMPEGPath  *string
	PressFrames *int // Record mode: frames the synthetic pointer stays down
}

// Defaults returns options with every field set to its default value.
func Defaults() *RippleOptions {
	help := false
	mode := "interactive"
	width, height := 1280, 720
	texture := "textures/test.png"
	vflip := true
	duration := 10.0
	fps := 60
	output := "output.mp4"
	codec := "h264"
	ffmpegPath := ""
	press := 6
	return &RippleOptions{
		Help:        &help,
		Mode:        &mode,
		Width:       &width,
		Height:      &height,
		TexturePath: &texture,
		VFlip:       &vflip,
		Duration:    &duration,
		FPS:         &fps,
		OutputFile:  &output,
		Codec:       &codec,
		FFMPEGPath:  &ffmpegPath,
		PressFrames: &press,
	}
}
