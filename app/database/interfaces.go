package database

type ArticleRepository interface {
	Insert(article *Article) error
	ExistsBySlug(slug string) (bool, error)
	ExistsBySourceURL(sourceURL string) (bool, error)
	GetArticleCount() (int, error)
}

type SourceRepository interface {
	GetActiveSources(sourceType SourceType) ([]Source, error)
	UpsertSource(sourceType SourceType, name, url, category string) error
	UpdateWatermark(sourceType SourceType, id int64) error
	GetSourceCount(sourceType SourceType) (int, error)
}
