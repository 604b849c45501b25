//go:build protogen

package directory

import (
	"context"
	"time"

	"github.com/nafiz-ahmed/meddesk/libs/grpcx"
	directoryv1 "github.com/nafiz-ahmed/meddesk/protos/gen/directory/v1"
	"github.com/nafiz-ahmed/meddesk/services/scheduling-service/internal/model"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Provider resolves doctor records synchronously from the directory service.
// The default deployment relies on the event-synced local cache instead; this
// path exists for setups that cannot run Kafka.
type Provider interface {
	GetDoctor(ctx context.Context, ref string) (*model.Doctor, error)
}

type grpcProvider struct {
	client directoryv1.DirectoryServiceClient
}

func NewProvider(addr string) (Provider, error) {
	if addr == "" {
		return nil, nil
	}
	conn, err := grpcx.Dial(context.Background(), addr, grpcx.DialOptions{Timeout: 3 * time.Second})
	if err != nil {
		return nil, err
	}
	return &grpcProvider{client: directoryv1.NewDirectoryServiceClient(conn)}, nil
}

func (p *grpcProvider) GetDoctor(ctx context.Context, ref string) (*model.Doctor, error) {
	resp, err := p.client.GetDoctor(ctx, &directoryv1.GetDoctorRequest{Ref: ref})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, nil
		}
		return nil, err
	}

	doc := &model.Doctor{
		ID:            resp.GetDoctorId(),
		FullName:      resp.GetFullName(),
		Department:    resp.GetDepartment(),
		FallbackSlots: resp.GetFallbackSlots(),
	}
	if days := resp.GetWorkSchedule(); len(days) > 0 {
		doc.WorkSchedule = make(model.WorkSchedule, len(days))
		for name, day := range days {
			doc.WorkSchedule[name] = model.DaySchedule{
				Enabled: day.GetEnabled(),
				Slots:   day.GetSlots(),
			}
		}
	}
	return doc, nil
}
