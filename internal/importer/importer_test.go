package importer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tyrehub/catalog/internal/common"
	"tyrehub/catalog/internal/config"
	"tyrehub/catalog/internal/db/dbtest"
	"tyrehub/catalog/internal/logging"
	"tyrehub/catalog/internal/metrics"
	"tyrehub/catalog/internal/models/dtos"
	"tyrehub/catalog/internal/models/feed"
	"tyrehub/catalog/internal/models/gorm"

	"github.com/prometheus/client_golang/prometheus"
	gormlib "gorm.io/gorm"
)

func TestMain(m *testing.M) {
	_ = logging.Init("test")
	os.Exit(m.Run())
}

const michelin = `{"Marca":"Michelin","Model":"Primacy 4","Dimensiune":"205/55R16","TipProdus":"NOU",
	"Latime":205,"Inaltime":55,"Diametru":16,"SKU":"X1","Pret_Lista":450,"stoc":3}`

type testEnv struct {
	job  *Job
	db   *gormlib.DB
	lock *common.LocalRunLock
}

func newTestEnv(t *testing.T, batchSize int) *testEnv {
	t.Helper()
	gdb, sqlDB := dbtest.Open(t)
	lock := common.NewLocalRunLock()
	cfg := config.ImportConfig{
		BatchSize:  batchSize,
		SellerName: "RADBURG",
		Source:     "MP",
		Currency:   "RON",
		TypeRules:  config.DefaultTypeRules(),
	}
	m := metrics.NewMetricsRegistry(prometheus.NewRegistry())
	return &testEnv{
		job:  NewJob(gdb, sqlDB, lock, nil, m, cfg),
		db:   gdb,
		lock: lock,
	}
}

func writeFeed(t *testing.T, records ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	doc := "[" + strings.Join(records, ",\n") + "]"
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatalf("write feed: %v", err)
	}
	return path
}

func (e *testEnv) run(t *testing.T, file string) {
	t.Helper()
	if _, err := e.job.Run(context.Background(), file, "CLI"); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func (e *testEnv) count(t *testing.T, model interface{}) int64 {
	t.Helper()
	return dbtest.Count(t, e.db, model)
}

func (e *testEnv) tyreSpecBySKU(t *testing.T, sku string) gorm.ProductTyreSpec {
	t.Helper()
	var spec gorm.ProductTyreSpec
	err := e.db.
		Joins("JOIN offer ON offer.product_id = product_tyres.product_id").
		Where("offer.sku_external = ?", sku).
		First(&spec).Error
	if err != nil {
		t.Fatalf("tyre spec for %s: %v", sku, err)
	}
	return spec
}

func TestRun_MichelinExample(t *testing.T) {
	env := newTestEnv(t, 2000)
	env.run(t, writeFeed(t, michelin))

	for name, model := range map[string]interface{}{
		"brand":     &gorm.Brand{},
		"model":     &gorm.Model{},
		"dimension": &gorm.Dimension{},
		"product":   &gorm.Product{},
		"offer":     &gorm.Offer{},
	} {
		if n := env.count(t, model); n != 1 {
			t.Errorf("expected 1 %s row, got %d", name, n)
		}
	}

	var brand gorm.Brand
	env.db.First(&brand)
	if brand.Name != "Michelin" {
		t.Errorf("brand name = %q", brand.Name)
	}

	var dim gorm.Dimension
	env.db.First(&dim)
	if dim.WidthMM != 205 || dim.HeightPct != 55 || dim.RimDiamIn != 16 || dim.Slug != "205-55-r16" {
		t.Errorf("unexpected dimension %+v", dim)
	}

	var product gorm.Product
	env.db.Preload("Tyre").First(&product)
	if product.Slug != "michelin-primacy-4-205-55r16-new" {
		t.Errorf("slug = %q", product.Slug)
	}
	if product.Title != "Michelin Primacy 4 205/55R16" {
		t.Errorf("title fallback = %q", product.Title)
	}
	if product.Tyre == nil || product.Tyre.TyreType != "NEW" || product.Tyre.DepthBucket != nil {
		t.Errorf("unexpected tyre spec %+v", product.Tyre)
	}
	if product.Tyre != nil && product.Tyre.SeasonID != nil {
		t.Error("record without season should leave season_id NULL")
	}

	var offer gorm.Offer
	env.db.First(&offer)
	if offer.PriceNumeric != 450 || offer.Stock != 3 || offer.Currency != "RON" || !offer.IsActive {
		t.Errorf("unexpected offer %+v", offer)
	}
	if n := env.count(t, &gorm.OfferTyreSpec{}); n != 1 {
		t.Errorf("expected 1 offer_tyres row, got %d", n)
	}
	if n := env.count(t, &gorm.ProductRaw{}); n != 1 {
		t.Errorf("expected 1 raw audit row, got %d", n)
	}
}

func TestRun_SkipsIncompleteRecords(t *testing.T) {
	env := newTestEnv(t, 2000)
	file := writeFeed(t,
		`{"Model":"Primacy 4","Latime":205,"Inaltime":55,"Diametru":16,"SKU":"A"}`,
		`{"Marca":"Michelin","Latime":205,"Inaltime":55,"Diametru":16,"SKU":"B"}`,
		`{"Marca":"Michelin","Model":"Primacy 4","Latime":"abc","Inaltime":55,"Diametru":16,"SKU":"C"}`,
	)

	res, err := env.job.Run(context.Background(), file, "CLI")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Skipped != 3 || res.Processed != 0 {
		t.Errorf("processed=%d skipped=%d, want 0/3", res.Processed, res.Skipped)
	}

	for name, model := range map[string]interface{}{
		"product":       &gorm.Product{},
		"product_tyres": &gorm.ProductTyreSpec{},
		"offer":         &gorm.Offer{},
		"offer_tyres":   &gorm.OfferTyreSpec{},
		"brand":         &gorm.Brand{},
	} {
		if n := env.count(t, model); n != 0 {
			t.Errorf("expected no %s rows, got %d", name, n)
		}
	}
}

func TestRun_NonFiniteNumbers(t *testing.T) {
	env := newTestEnv(t, 2000)
	file := writeFeed(t,
		michelin,
		`{"Marca":"Kumho","Model":"Ecsta","Latime":215,"Inaltime":55,"Diametru":"NaN","SKU":"NAN1","Pret_Lista":100}`,
		`{"Marca":"Kumho","Model":"Solus","Latime":"Inf","Inaltime":55,"Diametru":16,"SKU":"INF0","Pret_Lista":100}`,
		`{"Marca":"Kumho","Model":"Crugen","Dimensiune":"225/45R17","TipProdus":"SH","mmProfil":"Infinity",
		  "Latime":225,"Inaltime":45,"Diametru":17,"SKU":"INF1","Pret_Lista":"Infinity","stoc":"-Inf"}`,
	)

	res, err := env.job.Run(context.Background(), file, "CLI")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if res.Processed != 2 || res.Skipped != 2 {
		t.Errorf("processed=%d skipped=%d, want 2/2", res.Processed, res.Skipped)
	}
	if n := env.count(t, &gorm.Product{}); n != 2 {
		t.Errorf("expected michelin and INF1 products, got %d", n)
	}
	if n := env.count(t, &gorm.Dimension{}); n != 2 {
		t.Errorf("expected 2 dimensions, got %d", n)
	}

	spec := env.tyreSpecBySKU(t, "INF1")
	if spec.TreadDepthMM != nil || spec.DepthBucket != nil {
		t.Errorf("infinite depth should be dropped, got depth=%v bucket=%v", spec.TreadDepthMM, spec.DepthBucket)
	}

	var offer gorm.Offer
	if err := env.db.Where("sku_external = ?", "INF1").First(&offer).Error; err != nil {
		t.Fatalf("offer INF1: %v", err)
	}
	if offer.PriceNumeric != 0 || offer.Stock != 0 {
		t.Errorf("non-finite price and stock should become 0, got %v/%d", offer.PriceNumeric, offer.Stock)
	}
}

func TestRun_BrandCaseVariantsShareRow(t *testing.T) {
	env := newTestEnv(t, 2000)
	file := writeFeed(t,
		michelin,
		`{"Marca":"MICHELIN","Model":"Alpin 6","Latime":205,"Inaltime":55,"Diametru":16,"SKU":"X9","Pret_Lista":500}`,
	)

	env.run(t, file)

	if n := env.count(t, &gorm.Brand{}); n != 1 {
		t.Fatalf("expected one brand row for both spellings, got %d", n)
	}
	var brand gorm.Brand
	env.db.First(&brand)
	if brand.Name != "Michelin" {
		t.Errorf("first spelling seen should win, got %q", brand.Name)
	}

	var products []gorm.Product
	env.db.Find(&products)
	if len(products) != 2 {
		t.Fatalf("expected 2 products, got %d", len(products))
	}
	for _, p := range products {
		if p.BrandID != brand.ID {
			t.Errorf("product %s has brand %d, want %d", p.Slug, p.BrandID, brand.ID)
		}
	}
}

func TestRun_IsIdempotent(t *testing.T) {
	env := newTestEnv(t, 2)
	file := writeFeed(t,
		michelin,
		`{"Marca":"Michelin","Model":"Pilot Sport 5","Dimensiune":"225/45R17","TipProdus":"SH","mmProfil":6,
		  "Latime":225,"Inaltime":45,"Diametru":17,"Sezon":"Vara","SKU":"X2","Pret_Lista":"300","stoc":1,
		  "Etichete":"Anvelope SUV, Anvelope Autoturism"}`,
		`{"Marca":"Continental","Model":"WinterContact","Dimensiune":"195/65R15","TipProdus":"NOU",
		  "Latime":195,"Inaltime":65,"Diametru":15,"Sezon":"Iarna","SKU":"X3","Pret_Lista":410,"stoc":8,
		  "Etichete":"Anvelope SUV"}`,
	)

	models := map[string]interface{}{
		"brand":         &gorm.Brand{},
		"model":         &gorm.Model{},
		"dimension":     &gorm.Dimension{},
		"season":        &gorm.Season{},
		"tag":           &gorm.Tag{},
		"product":       &gorm.Product{},
		"product_tyres": &gorm.ProductTyreSpec{},
		"offer":         &gorm.Offer{},
		"offer_tyres":   &gorm.OfferTyreSpec{},
		"product_tag":   &gorm.ProductTag{},
		"product_raw":   &gorm.ProductRaw{},
	}

	env.run(t, file)
	first := make(map[string]int64)
	for name, model := range models {
		first[name] = env.count(t, model)
	}

	env.run(t, file)
	for name, model := range models {
		if n := env.count(t, model); n != first[name] {
			t.Errorf("%s: %d rows after first run, %d after second", name, first[name], n)
		}
	}

	if first["product"] != 3 || first["tag"] != 2 || first["product_tag"] != 3 {
		t.Errorf("unexpected first-run counts %v", first)
	}
}

func TestRun_LastWriteWinsWithinBatch(t *testing.T) {
	env := newTestEnv(t, 2000)
	file := writeFeed(t,
		`{"Marca":"Michelin","Model":"Primacy 4","Dimensiune":"205/55R16","TipProdus":"NOU",
		  "Latime":205,"Inaltime":55,"Diametru":16,"SKU":"X1","Pret_Lista":450,"stoc":3,"Calitate":"A"}`,
		`{"Marca":"Bridgestone","Model":"Turanza","Dimensiune":"205/55R16","TipProdus":"NOU",
		  "Latime":205,"Inaltime":55,"Diametru":16,"SKU":"Y1","Pret_Lista":380,"stoc":2}`,
		`{"Marca":"Michelin","Model":"Primacy 4","Dimensiune":"205/55R16","TipProdus":"NOU",
		  "Latime":205,"Inaltime":55,"Diametru":16,"SKU":"X1","Pret_Lista":425,"stoc":7,"Calitate":"B"}`,
	)
	env.run(t, file)

	if n := env.count(t, &gorm.Offer{}); n != 2 {
		t.Fatalf("expected 2 offers, got %d", n)
	}

	var offer gorm.Offer
	if err := env.db.Preload("Tyre").Where("sku_external = ?", "X1").First(&offer).Error; err != nil {
		t.Fatalf("load offer: %v", err)
	}
	if offer.PriceNumeric != 425 || offer.Stock != 7 {
		t.Errorf("expected last values 425/7, got %v/%d", offer.PriceNumeric, offer.Stock)
	}
	if offer.Tyre == nil || offer.Tyre.QualityGrade == nil || *offer.Tyre.QualityGrade != "B" {
		t.Errorf("offer spec should follow the last record, got %+v", offer.Tyre)
	}
}

func TestRun_DepthBucket(t *testing.T) {
	env := newTestEnv(t, 2000)
	if err := env.db.Model(&gorm.SysSetting{}).
		Where("key = ?", "sh_depth_window_mm").
		Update("val", "3").Error; err != nil {
		t.Fatalf("update setting: %v", err)
	}

	base := `"Marca":"Kumho","Model":"Ecsta","Dimensiune":"215/55R17","Latime":215,"Inaltime":55,"Diametru":17,"Pret_Lista":200,"stoc":1`
	file := writeFeed(t,
		`{`+base+`,"TipProdus":"SH","mmProfil":7,"SKU":"SH-DEPTH"}`,
		`{`+base+`,"TipProdus":"SH","SKU":"SH-NODEPTH"}`,
		`{`+base+`,"TipProdus":"NOU","mmProfil":7,"SKU":"NEW-DEPTH"}`,
	)
	env.run(t, file)

	if spec := env.tyreSpecBySKU(t, "SH-DEPTH"); spec.DepthBucket == nil || *spec.DepthBucket != 2 {
		t.Errorf("SH with 7mm and 3mm window: bucket = %v, want 2", spec.DepthBucket)
	}
	if spec := env.tyreSpecBySKU(t, "SH-NODEPTH"); spec.DepthBucket != nil {
		t.Errorf("SH without depth must have no bucket, got %d", *spec.DepthBucket)
	}
	if spec := env.tyreSpecBySKU(t, "NEW-DEPTH"); spec.DepthBucket != nil {
		t.Errorf("NEW tyre must have no bucket, got %d", *spec.DepthBucket)
	}

	var p gorm.Product
	env.db.Joins("JOIN offer ON offer.product_id = product.id").Where("offer.sku_external = ?", "SH-DEPTH").First(&p)
	if p.Slug != "kumho-ecsta-215-55r17-sh-2mm" {
		t.Errorf("bucketed slug = %q", p.Slug)
	}
}

func TestRun_FailedBatchRollsBackOnlyThatBatch(t *testing.T) {
	env := newTestEnv(t, 2)

	offerInserts := 0
	err := env.db.Callback().Create().Before("gorm:create").Register("test:fail_second_batch", func(tx *gormlib.DB) {
		if tx.Statement.Table == "offer" {
			offerInserts++
			if offerInserts == 2 {
				tx.AddError(errors.New("forced constraint violation"))
			}
		}
	})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	file := writeFeed(t,
		`{"Marca":"A","Model":"M1","Latime":205,"Inaltime":55,"Diametru":16,"SKU":"1","Pret_Lista":1}`,
		`{"Marca":"A","Model":"M2","Latime":205,"Inaltime":55,"Diametru":16,"SKU":"2","Pret_Lista":2}`,
		`{"Marca":"B","Model":"M3","Latime":195,"Inaltime":65,"Diametru":15,"SKU":"3","Pret_Lista":3,"Etichete":"SUV"}`,
		`{"Marca":"B","Model":"M4","Latime":195,"Inaltime":65,"Diametru":15,"SKU":"4","Pret_Lista":4}`,
	)

	res, runErr := env.job.Run(context.Background(), file, "CLI")
	if runErr == nil {
		t.Fatal("expected the run to fail")
	}
	if !strings.Contains(runErr.Error(), "batch 2") {
		t.Errorf("error should name the batch, got %v", runErr)
	}
	if res.Batches != 1 || res.Processed != 2 {
		t.Errorf("batches=%d processed=%d, want 1/2", res.Batches, res.Processed)
	}

	checks := map[string]struct {
		model interface{}
		want  int64
	}{
		"brand":       {&gorm.Brand{}, 1},
		"dimension":   {&gorm.Dimension{}, 1},
		"product":     {&gorm.Product{}, 2},
		"offer":       {&gorm.Offer{}, 2},
		"product_raw": {&gorm.ProductRaw{}, 2},
		"tag":         {&gorm.Tag{}, 0},
	}
	for name, c := range checks {
		if n := env.count(t, c.model); n != c.want {
			t.Errorf("%s: got %d rows, want %d", name, n, c.want)
		}
	}

	var run gorm.ImportRun
	env.db.First(&run)
	if run.Status != gorm.ImportStatusFailed || run.Error == "" || run.FinishedAt == nil {
		t.Errorf("run not recorded as failed: %+v", run)
	}
}

func TestRun_TagsAndCopy(t *testing.T) {
	env := newTestEnv(t, 2000)
	file := writeFeed(t,
		`{"Marca":"Michelin","Model":"Alpin 6","Latime":205,"Inaltime":55,"Diametru":16,"SKU":"T1",
		  "Titlu":"Michelin Alpin 6 iarna",
		  "Etichete":"Anvelope SUV, Anvelope 4x4, suv, ",
		  "Descriere":"{\"text\":\"Grip pe zapada\"}",
		  "Caracteristici":"{not json"}`,
	)
	env.run(t, file)

	var product gorm.Product
	if err := env.db.Preload("Tags").Preload("Copy").First(&product).Error; err != nil {
		t.Fatalf("load product: %v", err)
	}
	if product.Title != "Michelin Alpin 6 iarna" {
		t.Errorf("title = %q", product.Title)
	}
	if len(product.Tags) != 2 {
		t.Errorf("expected 2 distinct tags, got %+v", product.Tags)
	}
	if product.Copy == nil {
		t.Fatal("expected product copy from valid description")
	}
	content := string(product.Copy.Content)
	if !strings.Contains(content, "Grip pe zapada") || strings.Contains(content, "characteristics") {
		t.Errorf("copy content = %s", content)
	}
}

func TestRun_RejectsConcurrentRun(t *testing.T) {
	env := newTestEnv(t, 2000)
	release, err := env.lock.TryLock(context.Background(), runLockName, time.Minute)
	if err != nil {
		t.Fatalf("TryLock: %v", err)
	}
	defer release()

	_, err = env.job.Run(context.Background(), writeFeed(t, michelin), "API")
	if !errors.Is(err, ErrRunInProgress) {
		t.Errorf("error = %v, want ErrRunInProgress", err)
	}
	if n := env.count(t, &gorm.ImportRun{}); n != 0 {
		t.Errorf("rejected run must not be recorded, got %d rows", n)
	}
}

func TestRun_RecordsHistory(t *testing.T) {
	env := newTestEnv(t, 2000)
	res, err := env.job.Run(context.Background(), writeFeed(t, michelin, `{"Marca":"X"}`), "API")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	var run gorm.ImportRun
	if err := env.db.Where("id = ?", res.RunID).First(&run).Error; err != nil {
		t.Fatalf("load run: %v", err)
	}
	if run.Status != gorm.ImportStatusSucceeded || run.Total != 2 || run.Processed != 1 || run.Skipped != 1 || run.Batches != 1 {
		t.Errorf("unexpected run row %+v", run)
	}
	if run.Trigger != "API" {
		t.Errorf("trigger = %q", run.Trigger)
	}
}

func TestRun_FeedNotArray(t *testing.T) {
	env := newTestEnv(t, 2000)
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte(michelin), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := env.job.Run(context.Background(), path, "CLI")
	if !errors.Is(err, feed.ErrNotArray) {
		t.Errorf("error = %v, want feed.ErrNotArray", err)
	}
}

func TestRun_CancelledContextStopsRun(t *testing.T) {
	env := newTestEnv(t, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := env.job.Run(ctx, writeFeed(t, michelin), "CLI")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v, want context.Canceled", err)
	}
	if res != nil && res.Batches != 0 {
		t.Errorf("no batch should run after cancellation, got %d", res.Batches)
	}
}

func TestStart_RunsInBackgroundAndHoldsLock(t *testing.T) {
	env := newTestEnv(t, 2000)
	file := writeFeed(t, michelin)

	done := make(chan error, 1)
	if err := env.job.Start(context.Background(), file, "API", func(_ *dtos.ImportResult, err error) {
		done <- err
	}); err != nil {
		t.Fatalf("Start: %v", err)
	}

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("background run: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("background run did not finish")
	}

	runs, err := env.job.RecentRuns(context.Background(), 10)
	if err != nil {
		t.Fatalf("RecentRuns: %v", err)
	}
	if len(runs) != 1 || runs[0].Status != gorm.ImportStatusSucceeded {
		t.Errorf("unexpected runs %+v", runs)
	}

	// The lock is released once the run is done.
	if err := env.job.Start(context.Background(), file, "API", nil); err != nil {
		t.Errorf("second Start after completion: %v", err)
	}
}
