package provider

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

type VehicleType int

const (
	File VehicleType = iota
	HTTP
)

func (v VehicleType) String() string {
	switch v {
	case File:
		return "File"
	case HTTP:
		return "HTTP"
	default:
		return "Unknown"
	}
}

// Vehicle knows how to fetch one provider's raw payload.
type Vehicle interface {
	Read() ([]byte, error)
	Path() string
	Type() VehicleType
}

type FileVehicle struct {
	path string
}

func (f *FileVehicle) Type() VehicleType {
	return File
}

func (f *FileVehicle) Path() string {
	return f.path
}

func (f *FileVehicle) Read() ([]byte, error) {
	return os.ReadFile(f.path)
}

func NewFileVehicle(path string) *FileVehicle {
	return &FileVehicle{path: path}
}

type HTTPVehicle struct {
	url string
}

func (h *HTTPVehicle) Type() VehicleType {
	return HTTP
}

func (h *HTTPVehicle) Path() string {
	return h.url
}

func (h *HTTPVehicle) Read() ([]byte, error) {
	client := http.Client{Timeout: 20 * time.Second}
	resp, err := client.Get(h.url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: %s", h.url, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

func NewHTTPVehicle(url string) *HTTPVehicle {
	return &HTTPVehicle{url: url}
}
