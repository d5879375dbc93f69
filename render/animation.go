package render

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/icza/mjpeg"

	"github.com/meteocima/parflow-runner/frames"
	"github.com/meteocima/parflow-runner/fsutil"
)

// Animation renders every frame of a stack with
// the same painter and the same fixed scale.
// First is the dump index of the first frame
// of the stack: captions and file names use
// dump indices.
type Animation struct {
	Painter Painter
	Scale   Scale
	FPS     int
	First   int
}

// FrameTitle is the caption of the frame of dump `i`.
func FrameTitle(i int) string {
	return fmt.Sprintf("frame %d", i)
}

// Each paints the frames of `stack` in ascending
// order and calls `fn` with each image and its
// position in the stack. It stops at the first
// error returned by `fn`.
func (a Animation) Each(stack frames.Stack, fn func(i int, img *image.RGBA) error) error {
	if !a.Scale.Valid() {
		return fmt.Errorf("invalid color scale [%g, %g]", a.Scale.Min, a.Scale.Max)
	}
	for i, m := range stack {
		if err := fn(i, a.Painter.Paint(m, FrameTitle(a.First+i), a.Scale)); err != nil {
			return err
		}
	}
	return nil
}

// Frame paints the frame at position `i` of `stack` alone.
func (a Animation) Frame(stack frames.Stack, i int) (*image.RGBA, error) {
	if i < 0 || i >= len(stack) {
		return nil, fmt.Errorf("frame %d outside animation of dumps %d to %d", a.First+i, a.First, a.First+len(stack)-1)
	}
	if !a.Scale.Valid() {
		return nil, fmt.Errorf("invalid color scale [%g, %g]", a.Scale.Min, a.Scale.Max)
	}
	return a.Painter.Paint(stack[i], FrameTitle(a.First+i), a.Scale), nil
}

// WriteAVI saves the animation of `stack` as
// a motion JPEG video at `path`. On failure
// no video is left at `path`.
func (a Animation) WriteAVI(path string, stack frames.Stack) (err error) {
	if len(stack) == 0 {
		return fmt.Errorf("no frames to write to `%s`", path)
	}
	first, err := a.Frame(stack, 0)
	if err != nil {
		return err
	}
	size := first.Bounds().Size()

	video, err := mjpeg.New(path, int32(size.X), int32(size.Y), int32(a.FPS))
	if err != nil {
		return fmt.Errorf("cannot create video `%s`: %w", path, err)
	}
	defer func() {
		if cerr := video.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("cannot close video `%s`: %w", path, cerr)
		}
		if err != nil {
			// drop the partial video
			tr := fsutil.Transaction{}
			if tr.Exists(fsutil.Path(path)) {
				tr.RmFile(fsutil.Path(path))
			}
		}
	}()

	var buf bytes.Buffer
	return a.Each(stack, func(i int, img *image.RGBA) error {
		buf.Reset()
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
			return fmt.Errorf("cannot encode frame %d: %w", a.First+i, err)
		}
		if err := video.AddFrame(buf.Bytes()); err != nil {
			return fmt.Errorf("cannot add frame %d to `%s`: %w", a.First+i, path, err)
		}
		return nil
	})
}

// WritePNGs saves each frame of `stack` as
// `<prefix>.<dump index %05d>.png` in `dir`.
func (a Animation) WritePNGs(dir fsutil.Path, prefix string, stack frames.Stack) error {
	tr := fsutil.Transaction{Root: dir}
	tr.MkDir(".")
	if tr.Err != nil {
		return tr.Err
	}
	return a.Each(stack, func(i int, img *image.RGBA) error {
		content, err := EncodePNG(img)
		if err != nil {
			return fmt.Errorf("cannot encode frame %d: %w", a.First+i, err)
		}
		tr.Save(fsutil.PathF("%s.%05d.png", prefix, a.First+i), content)
		return tr.Err
	})
}

// EncodePNG returns `img` encoded as png.
func EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
