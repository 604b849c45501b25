//go:build protogen

package grpcserver

import (
	"context"

	directoryv1 "github.com/nafiz-ahmed/meddesk/protos/gen/directory/v1"
	"github.com/nafiz-ahmed/meddesk/services/directory-service/internal/storage"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type server struct {
	directoryv1.UnimplementedDirectoryServiceServer
	doctors *storage.DoctorRepository
}

func Register(grpcServer *grpc.Server, doctors *storage.DoctorRepository) {
	directoryv1.RegisterDirectoryServiceServer(grpcServer, &server{doctors: doctors})
}

func (s *server) GetDoctor(ctx context.Context, req *directoryv1.GetDoctorRequest) (*directoryv1.GetDoctorResponse, error) {
	if req.GetRef() == "" {
		return nil, status.Error(codes.InvalidArgument, "ref is required")
	}

	doc, err := s.doctors.GetByRef(ctx, req.GetRef())
	if err != nil {
		if storage.IsNotFound(err) {
			return nil, status.Error(codes.NotFound, "doctor not found")
		}
		return nil, status.Error(codes.Internal, "lookup failed")
	}

	resp := &directoryv1.GetDoctorResponse{
		DoctorId:      doc.ID,
		FullName:      doc.FullName,
		Department:    doc.Department,
		FallbackSlots: doc.FallbackSlots,
	}
	if len(doc.WorkSchedule) > 0 {
		resp.WorkSchedule = make(map[string]*directoryv1.DaySchedule, len(doc.WorkSchedule))
		for name, day := range doc.WorkSchedule {
			resp.WorkSchedule[name] = &directoryv1.DaySchedule{
				Enabled: day.Enabled,
				Slots:   day.Slots,
			}
		}
	}
	return resp, nil
}
