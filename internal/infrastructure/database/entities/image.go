package entities

import "time"

// Image is the persisted row for one stored upload. Width and height are
// nullable: they stay NULL when dimensions could not be read.
type Image struct {
	ID               string    `gorm:"column:id;type:text;primaryKey"`
	OriginalFilename string    `gorm:"column:original_filename;type:text;not null"`
	StoredFilename   string    `gorm:"column:stored_filename;type:text;not null;uniqueIndex:idx_images_stored_filename"`
	FileSize         int64     `gorm:"column:file_size;not null"`
	MimeType         string    `gorm:"column:mime_type;type:text;not null"`
	Width            *int      `gorm:"column:width"`
	Height           *int      `gorm:"column:height"`
	UploadDate       time.Time `gorm:"column:upload_date;not null;index:idx_images_upload_date"`
	URL              string    `gorm:"column:url;type:text;not null"`
}

func (Image) TableName() string {
	return "images"
}
