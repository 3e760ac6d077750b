package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"asesoria/internal/database"
	"asesoria/internal/domain"
	"asesoria/internal/modules/notification"
	"asesoria/internal/repository"
)

var services = []domain.Service{
	{
		Name:        "Declaración de la Renta",
		Description: "Preparación y presentación de tu declaración anual de IRPF, con revisión de deducciones autonómicas y estatales.",
		Price:       59,
		Category:    "IRPF",
		Tags:        []string{"renta", "irpf", "particulares"},
		Duration:    "anual",
		Features:    []string{"Revisión de borrador", "Deducciones autonómicas", "Presentación telemática"},
		Popular:     true,
	},
	{
		Name:        "IVA Trimestral",
		Description: "Liquidación trimestral del IVA (modelo 303) y resumen anual (modelo 390) para autónomos y pymes.",
		Price:       45,
		Category:    "IVA",
		Tags:        []string{"iva", "modelo 303", "trimestral"},
		Duration:    "trimestral",
		Features:    []string{"Modelo 303", "Modelo 390", "Libros de facturas"},
		Popular:     true,
	},
	{
		Name:        "Alta de Autónomo",
		Description: "Tramitación completa del alta en Hacienda y Seguridad Social, con asesoramiento sobre epígrafes y tarifa plana.",
		Price:       79,
		Category:    "Autónomos",
		Tags:        []string{"alta", "autónomo", "seguridad social"},
		Duration:    "único",
		Features:    []string{"Modelo 036/037", "Alta RETA", "Asesoría de epígrafes"},
	},
	{
		Name:        "Contabilidad para Autónomos",
		Description: "Llevanza mensual de libros registro, conciliación bancaria y estimación directa simplificada.",
		Price:       69,
		Category:    "Autónomos",
		Tags:        []string{"contabilidad", "libros", "mensual"},
		Duration:    "mensual",
		Features:    []string{"Libros registro", "Conciliación bancaria", "Modelo 130"},
	},
	{
		Name:        "Impuesto de Sociedades",
		Description: "Cálculo y presentación del modelo 200, cierre contable y ajustes extracontables para sociedades.",
		Price:       149,
		Category:    "Sociedades",
		Tags:        []string{"sociedades", "modelo 200", "cierre"},
		Duration:    "anual",
		Features:    []string{"Modelo 200", "Cierre contable", "Pagos fraccionados"},
	},
	{
		Name:        "Constitución de SL",
		Description: "Constitución de tu sociedad limitada de principio a fin: denominación, estatutos, notaría y alta censal.",
		Price:       290,
		Category:    "Sociedades",
		Tags:        []string{"constitución", "sl", "estatutos"},
		Duration:    "único",
		Features:    []string{"Certificación de denominación", "Redacción de estatutos", "Alta censal"},
	},
	{
		Name:        "Nóminas y Seguros Sociales",
		Description: "Confección de nóminas, seguros sociales y gestión de contratos para plantillas de hasta diez personas.",
		Price:       89,
		Category:    "Laboral",
		Tags:        []string{"nóminas", "laboral", "contratos"},
		Duration:    "mensual",
		Features:    []string{"Nóminas mensuales", "Seguros sociales", "Altas y bajas"},
	},
	{
		Name:        "Asesoría Fiscal Integral",
		Description: "Acompañamiento fiscal continuo con asesor dedicado, consultas ilimitadas y planificación del ejercicio.",
		Price:       199,
		Category:    "IRPF",
		Tags:        []string{"asesoría", "planificación", "premium"},
		Duration:    "mensual",
		Features:    []string{"Asesor dedicado", "Consultas ilimitadas", "Planificación fiscal"},
		Popular:     true,
	},
}

type seedUser struct {
	email           string
	password        string
	name            string
	role            domain.UserRole
	maxClients      int
	specializations []string
}

var users = []seedUser{
	{email: "admin@asesoria.local", password: "admin123", name: "Administración", role: domain.RoleAdmin},
	{email: "laura@asesoria.local", password: "advisor123", name: "Laura Gómez", role: domain.RoleAdvisor, maxClients: 25, specializations: []string{"IRPF", "Autónomos"}},
	{email: "carlos@asesoria.local", password: "advisor123", name: "Carlos Ruiz", role: domain.RoleAdvisor, maxClients: 20, specializations: []string{"Sociedades", "IVA"}},
	{email: "marta@asesoria.local", password: "advisor123", name: "Marta Sanz", role: domain.RoleAdvisor, maxClients: 15, specializations: []string{"Laboral"}},
	{email: "cliente@asesoria.local", password: "cliente123", name: "Juan Pérez", role: domain.RoleClient},
}

func main() {
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "asesoria.db"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal(err)
	}

	if err := repository.Migrate(db); err != nil {
		log.Fatal(err)
	}
	if err := notification.Migrate(db); err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	userRepo := repository.NewUserRepository(db)
	advisorRepo := repository.NewAdvisorRepository(db)

	var count int64
	if err := db.Model(&domain.Service{}).Count(&count).Error; err != nil {
		log.Fatal(err)
	}
	if count == 0 {
		for i := range services {
			if err := db.Create(&services[i]).Error; err != nil {
				log.Fatal(err)
			}
		}
		log.Printf("seeded services count=%d", len(services))
	} else {
		log.Printf("services already present count=%d", count)
	}

	for _, su := range users {
		exists, err := userRepo.ExistsByEmail(ctx, su.email)
		if err != nil {
			log.Fatal(err)
		}
		if exists {
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(su.password), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal(err)
		}

		u := &domain.User{
			Email:        su.email,
			PasswordHash: string(hash),
			Role:         su.role,
			Name:         su.name,
		}
		if err := userRepo.Create(ctx, u); err != nil {
			log.Fatal(err)
		}

		if su.role == domain.RoleAdvisor {
			profile := &domain.AdvisorProfile{
				UserID:          u.ID,
				MaxClients:      su.maxClients,
				Specializations: su.specializations,
				IsActive:        true,
			}
			if err := advisorRepo.Create(ctx, profile); err != nil {
				log.Fatal(err)
			}
		}
		log.Printf("seeded user email=%s role=%s", su.email, su.role)
	}

	log.Println("seed complete")
}
