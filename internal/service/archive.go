package service

import (
	"bytes"
	"fmt"
	"math"

	"github.com/ds124wfegd/sizefit/internal/compress"
	"github.com/ds124wfegd/sizefit/internal/entity"
	"github.com/klauspost/compress/zip"
)

type archiveMember struct {
	name string
	data []byte
}

// archive renders one member per requested format and packs them together.
func (s *compressionService) archive(base string, req entity.SizeRequest, fit compress.Result) ([]byte, []string, error) {
	targetKB := float64(req.TargetSizeKB)

	var (
		members  []archiveMember
		warnings []string
	)
	for _, format := range req.Formats {
		data, err := s.encodeMember(format, fit, targetKB, false)
		if err != nil {
			return nil, nil, fmt.Errorf("render %s member: %w", format, err)
		}
		if math.Abs(compress.SizeKB(len(data))-targetKB) > archiveToleranceKB {
			warnings = append(warnings, sizeWarning(format, len(data), req.TargetSizeKB))
		}
		members = append(members, archiveMember{name: memberName(base, format), data: data})
	}

	data, err := writeArchive(members)
	if err != nil {
		return nil, nil, err
	}
	return data, warnings, nil
}

func writeArchive(members []archiveMember) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	for _, m := range members {
		w, err := zw.Create(m.name)
		if err != nil {
			return nil, fmt.Errorf("create archive entry %s: %w", m.name, err)
		}
		if _, err := w.Write(m.data); err != nil {
			return nil, fmt.Errorf("write archive entry %s: %w", m.name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("close archive: %w", err)
	}
	return buf.Bytes(), nil
}
