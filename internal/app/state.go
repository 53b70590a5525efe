// Package app holds the editing session: the working image, the corners placed
// on it, and the view mapping used to place them.
package app

import (
	"errors"
	"fmt"
	"sync"

	"perspectivefix/internal/image"
	"perspectivefix/internal/perspective"
	"perspectivefix/pkg/geometry"
)

// SelectionRadius is how close, in image pixels, a click must land to grab an
// existing corner instead of placing a new one.
const SelectionRadius = 20.0

// ErrNoImage is returned by operations that need a working image.
var ErrNoImage = errors.New("no image loaded")

// Corrector produces the corrected image. Both the pure Go and the OpenCV
// backends satisfy it.
type Corrector interface {
	Correct(src *image.Buffer, corners perspective.CornerSet) (*image.Buffer, error)
}

// EventType identifies different application events.
type EventType int

const (
	EventImageLoaded EventType = iota
	EventImageRotated
	EventCornersChanged
	EventCorrected
	EventSaved
)

// EventListener is called when an event occurs.
type EventListener func(data interface{})

// State holds the working image and the corners placed on it.
type State struct {
	mu sync.RWMutex

	imagePath string
	working   *image.Buffer

	// Replaced wholesale on every edit; readers get a stable version.
	corners  perspective.CornerSet
	selected int

	corrector Corrector
	listeners map[EventType][]EventListener
}

// NewState creates a session. A nil corrector selects the pure Go backend.
func NewState(corrector Corrector) *State {
	return &State{
		selected:  -1,
		corrector: orDefault(corrector),
		listeners: make(map[EventType][]EventListener),
	}
}

func orDefault(c Corrector) Corrector {
	if c == nil {
		return perspective.NewCorrector(perspective.DefaultOptions())
	}
	return c
}

// On registers an event listener for the specified event type.
func (s *State) On(event EventType, listener EventListener) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners[event] = append(s.listeners[event], listener)
}

// Emit triggers all listeners for the specified event type.
func (s *State) Emit(event EventType, data interface{}) {
	s.mu.RLock()
	listeners := s.listeners[event]
	s.mu.RUnlock()

	for _, listener := range listeners {
		listener(data)
	}
}

// SetCorrector swaps the correction backend. Nil restores the pure Go one.
func (s *State) SetCorrector(c Corrector) {
	s.mu.Lock()
	s.corrector = orDefault(c)
	s.mu.Unlock()
}

// LoadImage loads a new working image from disk.
func (s *State) LoadImage(path string) error {
	buf, err := image.Load(path)
	if err != nil {
		return err
	}
	s.SetImage(buf, path)
	return nil
}

// SetImage replaces the working image. Corners are cleared because their
// coordinates only make sense on the image they were placed on. A nil buffer
// unloads the image; EventImageLoaded then carries a nil *image.Buffer.
func (s *State) SetImage(buf *image.Buffer, path string) {
	s.mu.Lock()
	s.working = buf
	s.imagePath = path
	s.corners = perspective.NewCornerSet()
	s.selected = -1
	s.mu.Unlock()

	s.Emit(EventImageLoaded, buf)
	s.Emit(EventCornersChanged, perspective.NewCornerSet())
}

// Image returns the working image, or nil.
func (s *State) Image() *image.Buffer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.working
}

// ImagePath returns the path the working image came from.
func (s *State) ImagePath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.imagePath
}

// Rotate turns the working image 90 degrees and clears the corners.
func (s *State) Rotate(clockwise bool) error {
	return s.rotate(func(b *image.Buffer) *image.Buffer {
		return image.Rotate(b, clockwise)
	})
}

// Rotate180 turns the working image upside down and clears the corners.
func (s *State) Rotate180() error {
	return s.rotate(image.Rotate180)
}

func (s *State) rotate(turn func(*image.Buffer) *image.Buffer) error {
	s.mu.Lock()
	if s.working == nil {
		s.mu.Unlock()
		return ErrNoImage
	}
	rotated := turn(s.working)
	s.working = rotated
	s.corners = perspective.NewCornerSet()
	s.selected = -1
	s.mu.Unlock()

	s.Emit(EventImageRotated, rotated)
	s.Emit(EventCornersChanged, perspective.NewCornerSet())
	return nil
}

// Corners returns the current corner set.
func (s *State) Corners() perspective.CornerSet {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.corners
}

// SetCorners replaces the corner set.
func (s *State) SetCorners(c perspective.CornerSet) error {
	if c.Len() > perspective.CornerCount {
		return fmt.Errorf("%w: got %d", perspective.ErrInvalidCornerCount, c.Len())
	}
	s.mu.Lock()
	s.corners = c
	s.selected = -1
	s.mu.Unlock()

	s.Emit(EventCornersChanged, c)
	return nil
}

// Selected returns the index of the grabbed corner, or -1.
func (s *State) Selected() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// PlacePoint handles a press at p in image coordinates. A corner within
// SelectionRadius is grabbed; otherwise a new corner is added while fewer than
// four exist. It returns the grabbed corner index, or -1.
func (s *State) PlacePoint(p geometry.Point2D) int {
	s.mu.Lock()
	if s.working == nil {
		s.mu.Unlock()
		return -1
	}

	if i := s.corners.Nearest(p, SelectionRadius); i >= 0 {
		s.selected = i
		s.mu.Unlock()
		return i
	}

	next, err := s.corners.Add(p)
	if err != nil {
		s.selected = -1
		s.mu.Unlock()
		return -1
	}
	s.corners = next
	s.selected = next.Len() - 1
	selected := s.selected
	s.mu.Unlock()

	s.Emit(EventCornersChanged, next)
	return selected
}

// DragTo moves the grabbed corner to p. It reports whether a corner moved.
func (s *State) DragTo(p geometry.Point2D) bool {
	s.mu.RLock()
	i := s.selected
	s.mu.RUnlock()
	if i < 0 {
		return false
	}
	return s.MovePoint(i, p) == nil
}

// Release lets go of the grabbed corner.
func (s *State) Release() {
	s.mu.Lock()
	s.selected = -1
	s.mu.Unlock()
}

// MovePoint moves corner i to p.
func (s *State) MovePoint(i int, p geometry.Point2D) error {
	s.mu.Lock()
	next, err := s.corners.Move(i, p)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.corners = next
	s.mu.Unlock()

	s.Emit(EventCornersChanged, next)
	return nil
}

// ResetPoints clears all corners.
func (s *State) ResetPoints() {
	s.mu.Lock()
	s.corners = perspective.NewCornerSet()
	s.selected = -1
	s.mu.Unlock()

	s.Emit(EventCornersChanged, perspective.NewCornerSet())
}

// CanCorrect reports whether an image is loaded and four corners are placed.
func (s *State) CanCorrect() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.working != nil && s.corners.Complete()
}

// Correct runs the backend on the current image and corners. The result is
// computed fresh on every call.
func (s *State) Correct() (*image.Buffer, error) {
	s.mu.RLock()
	working, corners, corrector := s.working, s.corners, s.corrector
	s.mu.RUnlock()

	if working == nil {
		return nil, ErrNoImage
	}
	out, err := corrector.Correct(working, corners)
	if err != nil {
		return nil, err
	}

	s.Emit(EventCorrected, out)
	return out, nil
}

// Preview corrects and scales the result down to fit maxW x maxH.
func (s *State) Preview(maxW, maxH int) (*image.Buffer, error) {
	out, err := s.Correct()
	if err != nil {
		return nil, err
	}
	return image.Fit(out, maxW, maxH), nil
}

// SaveCorrected corrects and writes the result to path.
func (s *State) SaveCorrected(path string, jpegQuality int) error {
	out, err := s.Correct()
	if err != nil {
		return fmt.Errorf("correction failed: %w", err)
	}
	if err := image.Save(path, out, jpegQuality); err != nil {
		return err
	}

	s.Emit(EventSaved, path)
	return nil
}
