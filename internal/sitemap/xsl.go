package sitemap

// Stylesheet returns the XSL used by browsers to render sitemap
// documents as a table. It handles both url-sets and the index.
func Stylesheet() string {
	return stylesheet
}

const stylesheet = `<?xml version="1.0" encoding="UTF-8"?>
<xsl:stylesheet version="1.0"
                xmlns:xsl="http://www.w3.org/1999/XSL/Transform"
                xmlns:sitemap="http://www.sitemaps.org/schemas/sitemap/0.9"
                xmlns:image="http://www.google.com/schemas/sitemap-image/1.1">
  <xsl:output method="html" version="1.0" encoding="UTF-8" indent="yes"/>
  <xsl:template match="/">
    <html xmlns="http://www.w3.org/1999/xhtml">
      <head>
        <title>XML Sitemap</title>
        <meta http-equiv="Content-Type" content="text/html; charset=utf-8"/>
        <style type="text/css">
          body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", sans-serif; color: #333; }
          #sitemap { max-width: 980px; margin: 0 auto; }
          #sitemap__table { width: 100%; border-collapse: collapse; margin-top: 20px; }
          #sitemap__table tr:hover { background: #f6f6f6; }
          #sitemap__table th { background: #f8f9fa; padding: 12px; text-align: left; }
          #sitemap__table td { padding: 12px; border-bottom: 1px solid #eee; }
          .loc { word-break: break-all; }
          .lastmod { width: 200px; }
        </style>
      </head>
      <body>
        <div id="sitemap">
          <h1>XML Sitemap</h1>
          <xsl:choose>
            <xsl:when test="//sitemap:url">
              <p class="count">URLs: <xsl:value-of select="count(//sitemap:url)"/></p>
              <table id="sitemap__table">
                <tr>
                  <th>URL</th>
                  <th>Images</th>
                  <th>Last Modified</th>
                  <th>Change Frequency</th>
                  <th>Priority</th>
                </tr>
                <xsl:for-each select="//sitemap:url">
                  <tr class="entry">
                    <td class="loc"><a href="{sitemap:loc}"><xsl:value-of select="sitemap:loc"/></a></td>
                    <td class="images"><xsl:value-of select="count(image:image)"/></td>
                    <td class="lastmod"><xsl:value-of select="sitemap:lastmod"/></td>
                    <td class="changefreq"><xsl:value-of select="sitemap:changefreq"/></td>
                    <td class="priority"><xsl:value-of select="sitemap:priority"/></td>
                  </tr>
                </xsl:for-each>
              </table>
            </xsl:when>
            <xsl:otherwise>
              <p class="count">Sitemaps: <xsl:value-of select="count(sitemap:sitemapindex/sitemap:sitemap)"/></p>
              <table id="sitemap__table">
                <tr>
                  <th>Sitemap</th>
                  <th>Last Modified</th>
                </tr>
                <xsl:for-each select="sitemap:sitemapindex/sitemap:sitemap">
                  <tr class="entry">
                    <td class="loc"><a href="{sitemap:loc}"><xsl:value-of select="sitemap:loc"/></a></td>
                    <td class="lastmod"><xsl:value-of select="sitemap:lastmod"/></td>
                  </tr>
                </xsl:for-each>
              </table>
            </xsl:otherwise>
          </xsl:choose>
        </div>
      </body>
    </html>
  </xsl:template>
</xsl:stylesheet>
`
