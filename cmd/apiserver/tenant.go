package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/amoylab/casedesk/internal/apiserver/service"
	"github.com/amoylab/casedesk/internal/common/cnst"
	"github.com/amoylab/casedesk/internal/common/dto"
	"github.com/amoylab/casedesk/internal/validator"
)

var (
	tenantReq dto.CreateTenantRequest

	tenantCmd = &cobra.Command{
		Use:   "tenant",
		Short: "Manage tenants",
	}

	tenantCreateCmd = &cobra.Command{
		Use:   "create",
		Short: "Onboard a tenant together with its first administrator",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validator.Struct(validator.New(), &tenantReq); err != nil {
				return fmt.Errorf("invalid tenant: %w", err)
			}

			cfg, _, err := loadConfig()
			if err != nil {
				return err
			}
			logger, err := initLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			db, err := initDatabase(logger, &cfg.Database)
			if err != nil {
				return err
			}
			defer db.Close()

			svc := service.NewTenant(db, newHasher(&cfg.Security), logger)
			tenant, admin, err := svc.Onboard(cmd.Context(), &tenantReq)
			if err != nil {
				return err
			}

			logger.Info("tenant created",
				zap.String("tenant_id", tenant.ID),
				zap.String("slug", tenant.Slug),
				zap.String("admin_id", admin.ID))
			fmt.Fprintf(cmd.OutOrStdout(), "tenant %s (%s) created, admin %s, licenses %d/%d\n",
				tenant.Slug, tenant.ID, admin.Email, tenant.Licenses.InUse, tenant.Licenses.Total)
			return nil
		},
	}
)

func init() {
	f := tenantCreateCmd.Flags()
	f.StringVar(&tenantReq.Name, "name", "", "legal name of the organization")
	f.StringVar(&tenantReq.RUT, "rut", "", "tax id, e.g. 76.123.456-7")
	f.StringVar(&tenantReq.Slug, "slug", "", "tenant slug used in the X-Tenant-Slug header")
	f.StringVar(&tenantReq.Email, "email", "", "contact email of the organization")
	f.StringVar(&tenantReq.Phone, "phone", "", "contact phone, e.g. +56912345678")
	f.StringVar(&tenantReq.Address, "address", "", "postal address")
	f.StringVar(&tenantReq.Plan, "plan", cnst.PlanBasic, "subscription plan: Basic, Standard or Premium")
	f.IntVar(&tenantReq.Licenses, "licenses", 10, "number of user licenses")
	f.StringVar(&tenantReq.AdminEmail, "admin-email", "", "email of the first administrator")
	f.StringVar(&tenantReq.AdminPassword, "admin-password", "", "password of the first administrator")
	f.StringVar(&tenantReq.AdminFirst, "admin-first-name", "Tenant", "first name of the administrator")
	f.StringVar(&tenantReq.AdminLast, "admin-last-name", "Admin", "last name of the administrator")
	for _, name := range []string{"name", "rut", "slug", "email", "admin-email", "admin-password"} {
		_ = tenantCreateCmd.MarkFlagRequired(name)
	}
	tenantCmd.AddCommand(tenantCreateCmd)
}
