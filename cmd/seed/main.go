// Command seed fills the configured data directory with fake blog posts and a
// spread of appointments so the admin pages have something to show in dev.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"go.uber.org/zap"

	"github.com/remedyexcel/clinic-server/internal/blog"
	"github.com/remedyexcel/clinic-server/internal/config"
	"github.com/remedyexcel/clinic-server/internal/scheduling"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("seed starting")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config load error: %v", err)
	}

	gofakeit.Seed(time.Now().UnixNano())

	ctx := context.Background()

	store, err := scheduling.NewFileStore(cfg.DataDir)
	if err != nil {
		log.Fatalf("file store: %v", err)
	}
	if err := seedAppointments(ctx, store, cfg.DoctorName, 25); err != nil {
		log.Fatalf("seed appointments: %v", err)
	}

	posts, err := blog.NewFileStore(cfg.DataDir)
	if err != nil {
		log.Fatalf("blog store: %v", err)
	}
	if err := seedPosts(ctx, posts, cfg.DoctorName, 8); err != nil {
		log.Fatalf("seed blog posts: %v", err)
	}

	log.Println("seed complete")
}

// seedAppointments books real open slots over the next weeks so the seeded
// ledger never violates the one-booking-per-slot rule.
func seedAppointments(ctx context.Context, store scheduling.Store, doctorName string, count int) error {
	log.Printf("seeding %d appointments", count)

	svc := scheduling.NewService(store, scheduling.NewMutexLocker(), nil, zap.NewNop(), doctorName)

	booked := 0
	for day := 1; booked < count && day < 60; day++ {
		date := time.Now().AddDate(0, 0, day).Format("2006-01-02")
		slots, err := svc.AvailableSlots(ctx, date)
		if err != nil {
			return err
		}

		for _, slot := range slots {
			if booked >= count {
				break
			}
			if gofakeit.Number(0, 2) == 0 {
				continue // leave some slots open
			}

			ctype := scheduling.ConsultationOffline
			if gofakeit.Bool() {
				ctype = scheduling.ConsultationOnline
			}

			_, err := svc.BookAppointment(ctx, scheduling.BookingRequest{
				PatientName:      gofakeit.Name(),
				PatientEmail:     gofakeit.Email(),
				PatientPhone:     gofakeit.Phone(),
				AppointmentDate:  date,
				AppointmentTime:  slot.StartTime,
				ConsultationType: ctype,
				Notes:            gofakeit.Sentence(8),
			})
			if err != nil {
				return fmt.Errorf("book %s %s: %w", date, slot.StartTime, err)
			}
			booked++
		}
	}

	log.Printf("seeded %d appointments", booked)
	return nil
}

func seedPosts(ctx context.Context, store blog.Store, author string, count int) error {
	log.Printf("seeding %d blog posts", count)

	categories := []string{
		"Homeopathy Basics",
		"Nutrition",
		"Lifestyle",
		"Seasonal Health",
		"Case Studies",
	}

	for i := 0; i < count; i++ {
		_, err := store.CreatePost(ctx, blog.Post{
			Title:    gofakeit.Sentence(6),
			Excerpt:  gofakeit.Sentence(15),
			Content:  "<p>" + gofakeit.Paragraph(3, 4, 12, "</p><p>") + "</p>",
			Author:   author,
			Date:     gofakeit.DateRange(time.Now().AddDate(-1, 0, 0), time.Now()).Format("2006-01-02"),
			Category: categories[gofakeit.Number(0, len(categories)-1)],
			Image:    gofakeit.ImageURL(600, 400),
			ReadTime: fmt.Sprintf("%d min read", gofakeit.Number(3, 10)),
			Featured: i == 0,
			Status:   blog.StatusPublished,
		})
		if err != nil {
			return err
		}
	}
	return nil
}
