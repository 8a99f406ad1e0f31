package gen

import (
	"fmt"

	"workseed/internal/dist"
	"workseed/internal/domain"
)

var attachmentTemplates = []struct {
	pattern     string
	contentType string
}{
	{"%s_mockup_v%d.fig", "application/octet-stream"},
	{"%s_screenshot_%d.png", "image/png"},
	{"%s_spec_v%d.pdf", "application/pdf"},
	{"%s_notes_%d.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
	{"%s_data_%d.csv", "text/csv"},
	{"%s_recording_%d.mp4", "video/mp4"},
	{"%s_diagram_v%d.svg", "image/svg+xml"},
}

var attachmentCountWeights = []float64{0.60, 0.25, 0.10, 0.04, 0.01}

// genAttachments hangs files off a quarter of the tasks, one to five each,
// uploaded during the task's active life by someone on the team.
func (p *Pipeline) genAttachments(tasks []*taskState) ([]domain.Attachment, error) {
	var rows []domain.Attachment
	for _, t := range tasks {
		if p.rng.Float64() >= 0.25 {
			continue
		}
		n := 1 + dist.WeightedIndex(p.rng, attachmentCountWeights)
		for i := 0; i < n; i++ {
			id, err := p.reg.Mint(KindAttachment)
			if err != nil {
				return nil, err
			}
			uploader := p.commentAuthor(t)
			if err := p.reg.Require(uploader, KindUser); err != nil {
				return nil, err
			}
			tpl := dist.Pick(p.rng, attachmentTemplates)
			rows = append(rows, domain.Attachment{
				ID:          id,
				TaskID:      t.row.ID,
				UploaderID:  uploader,
				Filename:    fmt.Sprintf(tpl.pattern, slugify(t.project.team.department), 1+p.rng.Intn(9)),
				ContentType: tpl.contentType,
				SizeBytes:   int64(dist.FloatBetween(p.rng, 20_000, 8_000_000)),
				CreatedAt:   p.withinTaskLife(t),
			})
		}
	}
	return rows, nil
}
