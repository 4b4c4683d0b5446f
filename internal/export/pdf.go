/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
)

// PDFOptions controls the printable handout.
// Units are points (pt). The bitmap is placed 1px = 1pt inside Margin.
type PDFOptions struct {
	Scale  int
	Margin float64
	Title  string
}

// WritePDF places the exported bitmap on a single page sized to fit it.
// The image is embedded as the same lossless PNG WritePNG would produce.
func WritePDF(src Source, dir string, now time.Time, opt PDFOptions) (string, error) {
	if opt.Scale <= 0 {
		opt.Scale = DefaultScale
	}
	if opt.Margin < 0 {
		opt.Margin = 0
	}
	data, err := EncodePNG(src, opt.Scale)
	if err != nil {
		return "", err
	}
	side := float64(src.Dimensions().CellCount * opt.Scale)
	captionH := 0.0
	if opt.Title != "" {
		captionH = 18
	}
	pageW := side + 2*opt.Margin
	pageH := side + 2*opt.Margin + captionH

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: pageW, Ht: pageH},
		OrientationStr: "",
	})
	pdf.SetAuthor("Go Pixel Art", false)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	const imgName = "pixel-art"
	imgOpt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	pdf.RegisterImageOptionsReader(imgName, imgOpt, bytes.NewReader(data))
	pdf.ImageOptions(imgName, opt.Margin, opt.Margin, side, side, false, imgOpt, 0, "")

	if opt.Title != "" {
		pdf.SetTitle(opt.Title, true)
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(0, 0, 0)
		pdf.Text(opt.Margin, opt.Margin+side+12, opt.Title)
	}

	if err := pdf.Error(); err != nil {
		return "", fmt.Errorf("build pdf: %w", err)
	}
	path, err := outPath(dir, FileName(now, "pdf"))
	if err != nil {
		return "", err
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write pdf: %w", err)
	}
	return path, nil
}
