package cloud

import (
	"errors"
	"testing"
	"unsafe"
)

func TestVertexSize(t *testing.T) {
	if got := unsafe.Sizeof(Vertex{}); got != VertexSize {
		t.Errorf("Sizeof(Vertex) = %d, want %d", got, VertexSize)
	}
	if VertexLayout.Stride != VertexSize {
		t.Errorf("VertexLayout stride = %d, want %d", VertexLayout.Stride, VertexSize)
	}
}

func TestPointCount(t *testing.T) {
	tests := []struct {
		name    string
		n       int
		want    int
		wantErr bool
	}{
		{"empty", 0, 0, false},
		{"one", 6, 1, false},
		{"many", 600, 100, false},
		{"ragged", 7, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := PointCount(make([]float32, tt.n))
			if tt.wantErr {
				if !errors.Is(err, ErrRaggedBuffer) {
					t.Errorf("expected ErrRaggedBuffer, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("PointCount = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestXYZRGBConversion(t *testing.T) {
	vs := []Vertex{
		{X: 1, Y: 2, Z: 3, R: 255, G: 0, B: 51, A: 10},
		NewVertex(-1, 0, 0.5),
	}

	buf := ToXYZRGB(vs)
	if len(buf) != 12 {
		t.Fatalf("expected 12 floats, got %d", len(buf))
	}
	if buf[0] != 1 || buf[1] != 2 || buf[2] != 3 {
		t.Errorf("position not copied: %v", buf[:3])
	}
	if buf[3] != 1 || buf[4] != 0 || buf[5] != 0.2 {
		t.Errorf("color not normalized: %v", buf[3:6])
	}

	back, err := FromXYZRGB(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back[0].R != 255 || back[0].G != 0 || back[0].B != 51 {
		t.Errorf("color lost in conversion: %+v", back[0])
	}
	if back[0].A != 255 {
		t.Errorf("alpha should be opaque, got %d", back[0].A)
	}
	if back[1].R != DefaultColor[0] {
		t.Errorf("default color lost: %+v", back[1])
	}
}

func TestQuantizeClamps(t *testing.T) {
	vs, err := FromXYZRGB([]float32{0, 0, 0, -0.5, 2, 0.5})
	if err != nil {
		t.Fatal(err)
	}
	if vs[0].R != 0 || vs[0].G != 255 || vs[0].B != 128 {
		t.Errorf("unexpected quantization: %+v", vs[0])
	}
}

func TestLayoutBufferSize(t *testing.T) {
	if got := XYZRGBLayout.BufferSize(10); got != 240 {
		t.Errorf("XYZRGB buffer size = %d, want 240", got)
	}
	if got := VertexLayout.BufferSize(10); got != 160 {
		t.Errorf("Vertex buffer size = %d, want 160", got)
	}
}
