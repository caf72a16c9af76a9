package usecase

import (
	"context"

	"clinic-management/internal/delivery/dto"
	"clinic-management/internal/domain/access"
	"clinic-management/internal/domain/entity"
	"clinic-management/internal/domain/repository"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

type DashboardUsecase interface {
	GetStats(ctx context.Context, actor entity.Actor) (*dto.DashboardStatsResponse, error)
}

type dashboardUsecase struct {
	tx          repository.Transactor
	log         *logrus.Logger
	patientRepo repository.PatientRepository
	doctorRepo  repository.DoctorRepository
	invoiceRepo repository.InvoiceRepository
	branchRepo  repository.BranchRepository
}

func NewDashboardUsecase(
	tx repository.Transactor,
	log *logrus.Logger,
	patientRepo repository.PatientRepository,
	doctorRepo repository.DoctorRepository,
	invoiceRepo repository.InvoiceRepository,
	branchRepo repository.BranchRepository,
) DashboardUsecase {
	return &dashboardUsecase{
		tx:          tx,
		log:         log,
		patientRepo: patientRepo,
		doctorRepo:  doctorRepo,
		invoiceRepo: invoiceRepo,
		branchRepo:  branchRepo,
	}
}

// GetStats summarises the actor's current branch. Revenue is the sum of paid
// invoice totals and is only reported to roles that manage invoices.
func (u *dashboardUsecase) GetStats(ctx context.Context, actor entity.Actor) (*dto.DashboardStatsResponse, error) {
	db := u.tx.DB(ctx)
	stats := &dto.DashboardStatsResponse{
		BranchID:      actor.BranchID,
		TotalBranches: 1,
		TotalRevenue:  decimal.Zero,
	}

	// Each query writes its own field of stats.
	var g errgroup.Group

	g.Go(func() error {
		patients, err := u.patientRepo.FindByBranch(db, actor.BranchID)
		if err != nil {
			return err
		}
		stats.TotalPatients = len(access.VisiblePatients(actor, patients))
		return nil
	})
	g.Go(func() error {
		doctors, err := u.doctorRepo.FindByBranch(db, actor.BranchID)
		if err != nil {
			return err
		}
		stats.TotalDoctors = len(access.VisibleDoctors(actor.BranchID, doctors))
		return nil
	})
	g.Go(func() error {
		count, err := u.invoiceRepo.CountByBranch(db, actor.BranchID)
		if err != nil {
			return err
		}
		stats.TotalInvoices = count
		return nil
	})
	if access.CanSwitchBranch(actor.Role) {
		g.Go(func() error {
			count, err := u.branchRepo.Count(db)
			if err != nil {
				return err
			}
			stats.TotalBranches = count
			return nil
		})
	}
	if access.CanManageInvoices(actor.Role) {
		g.Go(func() error {
			revenue, err := u.invoiceRepo.SumPaidTotal(db, actor.BranchID)
			if err != nil {
				return err
			}
			stats.TotalRevenue = entity.Round2(revenue)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		u.log.Warnf("Failed to load dashboard stats: %+v", err)
		return nil, err
	}
	return stats, nil
}
