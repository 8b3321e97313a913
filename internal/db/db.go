package db

import (
	"encoding/json"

	"hemicycle/internal/logger"
	"hemicycle/internal/models"

	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init connects to Postgres, migrates and seeds. Any failure is fatal.
func Init(dsn string, log *logger.Logger) *gorm.DB {
	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		log.Fatal("Failed to connect to database", "error", err)
	}
	log.Info("Database connection established")

	if err := Migrate(DB); err != nil {
		log.Fatal("Failed to migrate database", "error", err)
	}
	log.Info("Database migration completed")

	if err := SeedQuestions(DB, log); err != nil {
		log.Warn("Failed to seed quiz questions", "error", err)
	}
	return DB
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.PoliticalGroup{},
		&models.Legislator{},
		&models.Ballot{},
		&models.Vote{},
		&models.Intervention{},
		&models.Amendment{},
		&models.WrittenQuestion{},
		// candidates
		&models.Candidate{},
		&models.Position{},
		&models.IngestionLog{},
		// quiz
		&models.QuizQuestion{},
		&models.QuizSession{},
		&models.QuizAnswer{},
		&models.MatchResult{},
	)
}

// SeedQuestions inserts the default questionnaire when the table is empty.
func SeedQuestions(db *gorm.DB, log *logger.Logger) error {
	var count int64
	if err := db.Model(&models.QuizQuestion{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Debug("Quiz questions already seeded, skipping")
		return nil
	}

	questions := DefaultQuestions()
	if err := db.Create(&questions).Error; err != nil {
		return err
	}
	log.Info("Initial quiz questions created", "count", len(questions))
	return nil
}

func axes(m map[string]float64) datatypes.JSON {
	raw, _ := json.Marshal(m)
	return datatypes.JSON(raw)
}

func DefaultQuestions() []models.QuizQuestion {
	citation := 80
	return []models.QuizQuestion{
		{Type: "dilemma", SortOrder: 1, Text: "Pour financer les retraites, faut-il plutôt…",
			OptionA: "Augmenter les cotisations patronales", OptionB: "Reculer l'âge légal de départ",
			Axes: axes(map[string]float64{"economie": 1, "social": 0.5})},
		{Type: "slider", SortOrder: 2, Text: "La France doit sortir des énergies fossiles d'ici 2040, quitte à ralentir la croissance.",
			Axes: axes(map[string]float64{"ecologie": 1})},
		{Type: "dilemma", SortOrder: 3, Text: "Face à la délinquance, la priorité est…",
			OptionA: "La prévention et l'éducation", OptionB: "Des peines plus lourdes et plus de policiers",
			Axes: axes(map[string]float64{"securite": 1})},
		{Type: "slider", SortOrder: 4, Text: "L'Union européenne devrait disposer d'un budget et d'une défense communs.",
			Axes: axes(map[string]float64{"europe": 1, "international": 0.5})},
		{Type: "citation", SortOrder: 5, Text: "« L'immigration doit être strictement limitée et choisie. »",
			Author: "Anonyme", CitationScore: &citation,
			Axes: axes(map[string]float64{"immigration": 1})},
		{Type: "dilemma", SortOrder: 6, Text: "Pour les institutions, vous préférez…",
			OptionA: "Une VIe République plus parlementaire", OptionB: "Conserver la Ve République",
			Axes: axes(map[string]float64{"institutions": 1})},
		{Type: "citation", SortOrder: 7, Text: "« La France doit rester pleinement dans le commandement intégré de l'OTAN. »",
			Author: "Anonyme",
			Axes:   axes(map[string]float64{"international": 1})},
		{Type: "slider", SortOrder: 8, Text: "L'État devrait réduire les dépenses publiques et baisser les impôts des entreprises.",
			Axes: axes(map[string]float64{"economie": 1})},
		{Type: "citation", SortOrder: 9, Text: "« Le mariage et l'adoption doivent rester ouverts à tous les couples. »",
			Author: "Anonyme",
			Axes:   axes(map[string]float64{"social": -1})},
		{Type: "ranking", SortOrder: 10, Text: "Classez les thèmes qui comptent le plus pour vous."},
	}
}
