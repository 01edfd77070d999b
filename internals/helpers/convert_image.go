package helper

import (
	"bytes"
	"fmt"
	_ "image/jpeg"
	_ "image/png"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/google/uuid"
)

// ConvertToWebP decodes an uploaded image, caps it at 512px on the long
// side and re-encodes as webp. Keeps member photo storage small.
func ConvertToWebP(fileHeader *multipart.FileHeader) ([]byte, error) {
	src, err := fileHeader.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer src.Close()

	img, err := imaging.Decode(src, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	b := img.Bounds()
	if b.Dx() > 512 || b.Dy() > 512 {
		img = imaging.Fit(img, 512, 512, imaging.Lanczos)
	}

	buf := new(bytes.Buffer)
	if err := webp.Encode(buf, img, &webp.Options{Lossless: false, Quality: 80}); err != nil {
		return nil, fmt.Errorf("failed to encode webp: %w", err)
	}
	return buf.Bytes(), nil
}

// UploadImageToSupabase converts and stores the image, returning the
// public URL.
func UploadImageToSupabase(folder string, fileHeader *multipart.FileHeader) (string, error) {
	data, err := ConvertToWebP(fileHeader)
	if err != nil {
		return "", err
	}

	filename := GenerateUniqueFilename(folder, fileHeader.Filename) + ".webp"
	if err := uploadToSupabase("image", filename, "image/webp", bytes.NewReader(data)); err != nil {
		return "", fmt.Errorf("image upload failed: %w", err)
	}

	publicURL := fmt.Sprintf("%s/storage/v1/object/public/image/%s",
		os.Getenv("SUPABASE_PROJECT_URL"),
		url.PathEscape(filename),
	)
	return publicURL, nil
}

func uploadToSupabase(bucket, filename, contentType string, body *bytes.Reader) error {
	endpoint := fmt.Sprintf("%s/storage/v1/object/%s/%s",
		os.Getenv("SUPABASE_PROJECT_URL"), bucket, url.PathEscape(filename))

	req, err := http.NewRequest(http.MethodPost, endpoint, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+os.Getenv("SUPABASE_SERVICE_ROLE_KEY"))
	req.Header.Set("Content-Type", contentType)

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("storage responded %d", resp.StatusCode)
	}
	return nil
}

// strip everything except letters, digits, dot, dash, underscore
func sanitizeFilename(filename string) string {
	re := regexp.MustCompile(`[^a-zA-Z0-9.\-_]+`)
	return re.ReplaceAllString(filename, "_")
}

func GenerateUniqueFilename(folder, originalFilename string) string {
	timestamp := time.Now().Format("20060102")
	uuidStr := uuid.New().String()
	return fmt.Sprintf("%s/%s-%s-%s", folder, timestamp, uuidStr, sanitizeFilename(originalFilename))
}
